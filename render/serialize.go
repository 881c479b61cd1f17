package render

import (
	"encoding/json"
)

// SerializeJSON encodes a program tree as recursive JSON with "type"
// discriminants. The format is shared across implementations; it is a
// debugging and interchange surface, not the execution format.
func SerializeJSON(p Program) ([]byte, error) {
	return json.MarshalIndent(p.serializeJSON(), "", "  ")
}

// SerializeJSONValue returns the serializable tree without encoding it.
func SerializeJSONValue(p Program) map[string]any {
	return p.serializeJSON()
}
