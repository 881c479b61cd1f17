package render

import (
	"encoding/json"
	"testing"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

func red() *Color   { return NewColor(vex.Vec4{X: 1, W: 1}) }
func blue() *Color  { return NewColor(vex.Vec4{Z: 1, W: 1}) }
func green() *Color { return NewColor(vex.Vec4{Y: 1, W: 1}) }

func unitSquarePath() *Path {
	return NewPath(FillNonZero, [][]vex.Point{{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}})
}

func TestSimplifyAlpha(t *testing.T) {
	if got := NewAlpha(red(), 0).Simplified(); got != Transparent {
		t.Errorf("zero alpha = %v, want Transparent", got.Name())
	}
	if got := NewAlpha(Transparent, 0.5).Simplified(); got != Transparent {
		t.Errorf("transparent child = %v, want Transparent", got.Name())
	}
	child := red()
	if got := NewAlpha(child, 1).Simplified(); got != child {
		t.Errorf("full alpha should unwrap to the child")
	}
}

func TestSimplifyAlphaFoldsColor(t *testing.T) {
	got := NewAlpha(red(), 0.5).Simplified()
	c, ok := got.(*Color)
	if !ok {
		t.Fatalf("got %T, want *Color", got)
	}
	want := vex.Vec4{X: 0.5, W: 0.5}
	if !c.Color.EqualsEpsilon(want, 1e-12) {
		t.Errorf("folded color = %+v, want %+v", c.Color, want)
	}
}

func TestSimplifyStack(t *testing.T) {
	// Transparent children drop; everything below an opaque child drops.
	s := NewStack(red(), Transparent, blue())
	got := s.Simplified()
	c, ok := got.(*Color)
	if !ok {
		t.Fatalf("got %T, want *Color (constant fold)", got)
	}
	if !c.Color.EqualsEpsilon(vex.Vec4{Z: 1, W: 1}, 1e-12) {
		t.Errorf("stack folds to %+v, want blue", c.Color)
	}

	if got := NewStack().Simplified(); got != Transparent {
		t.Errorf("empty stack = %v, want Transparent", got.Name())
	}
}

func TestSimplifyBlendComposeToStack(t *testing.T) {
	halfRed := NewColor(vex.Vec4{X: 0.5, W: 0.5})
	lb := NewLinearBlend(vex.Point{X: 1}, 0, halfRed, NewColor(vex.Vec4{Z: 0.5, W: 0.5}))
	got := NewBlendCompose(ComposeOver, BlendNormal, lb, green()).Simplified()
	if _, ok := got.(*Stack); !ok {
		t.Errorf("got %T, want *Stack", got)
	}
}

func TestSimplifyPathBoolean(t *testing.T) {
	empty := NewPath(FillNonZero, nil)
	got := NewPathBoolean(empty, red(), blue()).Simplified()
	if c, ok := got.(*Color); !ok || !c.Color.EqualsEpsilon(vex.Vec4{Z: 1, W: 1}, 1e-12) {
		t.Errorf("empty path boolean = %v, want outside color", got.Name())
	}

	shared := red()
	got = NewPathBoolean(unitSquarePath(), shared, shared).Simplified()
	if got != shared {
		t.Errorf("same-child path boolean = %v, want the child", got.Name())
	}
}

func TestSimplifyIsFixedPoint(t *testing.T) {
	programs := []Program{
		NewStack(red(), NewAlpha(blue(), 0.5), Transparent),
		NewBlendCompose(ComposeIn, BlendMultiply, red(), NewAlpha(blue(), 0.25)),
		NewPathBoolean(unitSquarePath(), red(), Transparent),
		NewLinearBlend(vex.Point{X: 1}, 0, red(), blue()),
	}
	for _, p := range programs {
		once := p.Simplified()
		twice := once.Simplified()
		if once != twice {
			t.Errorf("%s: simplification is not a fixed point", p.Name())
		}
	}
}

func TestNeedsFlags(t *testing.T) {
	tests := []struct {
		name          string
		p             Program
		needsCentroid bool
		needsFace     bool
	}{
		{"color", red(), false, false},
		{"linear blend", NewLinearBlend(vex.Point{X: 1}, 0, red(), blue()), true, false},
		{"path boolean", NewPathBoolean(unitSquarePath(), red(), blue()), true, false},
		{"analytic image", &Image{Resample: ResampleAnalytic}, false, true},
		{"point image", &Image{Resample: ResamplePoint}, true, false},
		{"stack propagates", NewStack(red(), NewLinearBlend(vex.Point{X: 1}, 0, red(), blue())), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.NeedsCentroid(); got != tt.needsCentroid {
				t.Errorf("NeedsCentroid = %v, want %v", got, tt.needsCentroid)
			}
			if got := tt.p.NeedsFace(); got != tt.needsFace {
				t.Errorf("NeedsFace = %v, want %v", got, tt.needsFace)
			}
		})
	}
}

func TestOpacityFlags(t *testing.T) {
	if !red().IsFullyOpaque() {
		t.Error("opaque color misreported")
	}
	if !Transparent.IsFullyTransparent() {
		t.Error("transparent misreported")
	}
	if !NewStack(NewAlpha(red(), 0.5), blue()).IsFullyOpaque() {
		t.Error("stack with opaque child should be opaque")
	}
}

func TestSerializeJSONRoundTripStructure(t *testing.T) {
	p := NewStack(
		NewPathBoolean(unitSquarePath(), red(), Transparent),
		NewAlpha(NewLinearGradient(vex.Identity(), vex.Point{}, vex.Point{X: 1},
			[]GradientStop{{Ratio: 0, Program: red()}, {Ratio: 1, Program: blue()}},
			filter.ExtendPad), 0.5),
	)

	raw, err := SerializeJSON(p)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["type"] != "Stack" {
		t.Errorf("root type = %v, want Stack", decoded["type"])
	}
	children, ok := decoded["children"].([]any)
	if !ok || len(children) != 2 {
		t.Fatalf("children = %v", decoded["children"])
	}
	first := children[0].(map[string]any)
	if first["type"] != "PathBoolean" {
		t.Errorf("first child = %v, want PathBoolean", first["type"])
	}
}
