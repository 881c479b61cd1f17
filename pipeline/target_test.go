package pipeline

import (
	"image/color"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

func TestPixmapTarget(t *testing.T) {
	target := NewPixmapTarget(32, 16)
	if target.Width() != 32 || target.Height() != 16 {
		t.Fatalf("size = %dx%d", target.Width(), target.Height())
	}
	if target.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v", target.Format())
	}
	if target.TextureView() != nil {
		t.Error("CPU target should have no texture view")
	}
	if len(target.Pixels()) != target.Stride()*16 {
		t.Errorf("pixel buffer %d bytes, stride %d", len(target.Pixels()), target.Stride())
	}

	target.Clear(color.RGBA{R: 255, A: 255})
	pix := target.Pixels()
	if pix[0] != 255 || pix[3] != 255 {
		t.Errorf("clear wrote %v", pix[:4])
	}
}

func TestNullDeviceHandle(t *testing.T) {
	var handle DeviceHandle = NullDeviceHandle{}
	if handle.Device() != nil || handle.Queue() != nil {
		t.Error("null device should return nil device and queue")
	}
	if (NullDeviceHandle{}).SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Error("null device surface format should be undefined")
	}

	acceptProvider := func(_ gpucontext.DeviceProvider) {}
	acceptProvider(NullDeviceHandle{})
}

func TestTextureTarget(t *testing.T) {
	target, err := NewTextureTarget(NullDeviceHandle{}, 128, 64, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	if target.Width() != 128 || target.Height() != 64 {
		t.Fatalf("size = %dx%d", target.Width(), target.Height())
	}
	if target.Pixels() != nil || target.Stride() != 0 {
		t.Error("GPU target should not expose CPU pixels")
	}
	target.Destroy()
}
