package manifest

import "encoding/json"

// ToCanonicalTree converts a tagged struct value (or any JSON-marshalable
// value) into the map[string]any / []any / primitive tree MarshalJSON
// expects, using v's `json` tags to decide field names and omission.
func ToCanonicalTree(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// CanonicalJSON is a convenience wrapper combining ToCanonicalTree and
// MarshalJSON for a single struct value.
func CanonicalJSON(v any) ([]byte, error) {
	tree, err := ToCanonicalTree(v)
	if err != nil {
		return nil, err
	}
	return MarshalJSON(tree)
}
