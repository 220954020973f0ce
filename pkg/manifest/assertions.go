package manifest

import "fmt"

// NormalizeAssertions replaces each assertion's generic decoded Data (a
// map produced by UnmarshalCBOR/json.Unmarshal) with its typed struct
// form, for the labels this package knows about. Unknown labels are left
// as decoded maps.
func NormalizeAssertions(assertions []Assertion) ([]Assertion, error) {
	out := make([]Assertion, len(assertions))
	for i, a := range assertions {
		m, ok := asStringMap(a.Data)
		if !ok {
			out[i] = a
			continue
		}

		switch a.Label {
		case LabelActions:
			actions, err := decodeActions(m["actions"])
			if err != nil {
				return nil, fmt.Errorf("manifest: decoding %s: %w", a.Label, err)
			}
			out[i] = Assertion{Label: a.Label, Data: ActionsAssertionData{Actions: actions}}
		case LabelSoftBinding:
			out[i] = Assertion{Label: a.Label, Data: SoftBindingAssertionData{
				Alg:         stringField(m, "alg"),
				Hash:        stringField(m, "hash"),
				AlgorithmID: stringField(m, "algorithm_id"),
			}}
		case LabelHardBinding:
			exclusions, err := decodeExclusions(m["exclusions"])
			if err != nil {
				return nil, fmt.Errorf("manifest: decoding %s: %w", a.Label, err)
			}
			out[i] = Assertion{Label: a.Label, Data: HardBindingAssertionData{
				Alg:        stringField(m, "alg"),
				Hash:       stringField(m, "hash"),
				Exclusions: exclusions,
			}}
		default:
			out[i] = a
		}
	}
	return out, nil
}

// asStringMap accepts both map[string]any (json.Unmarshal's shape) and
// map[interface{}]interface{} (fxamacker/cbor's default shape for `any`
// targets), normalizing to the former.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func decodeActions(v any) ([]Action, error) {
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("actions: expected a list, got %T", v)
	}
	out := make([]Action, 0, len(items))
	for _, item := range items {
		m, ok := asStringMap(item)
		if !ok {
			return nil, fmt.Errorf("actions: expected a mapping entry, got %T", item)
		}
		out = append(out, Action{
			Label:         stringField(m, "action"),
			SoftwareAgent: stringField(m, "softwareAgent"),
			When:          stringField(m, "when"),
			Description:   stringField(m, "description"),
		})
	}
	return out, nil
}

func decodeExclusions(v any) ([]ExclusionRange, error) {
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("exclusions: expected a list, got %T", v)
	}
	out := make([]ExclusionRange, 0, len(items))
	for _, item := range items {
		m, ok := asStringMap(item)
		if !ok {
			return nil, fmt.Errorf("exclusions: expected a mapping entry, got %T", item)
		}
		out = append(out, ExclusionRange{
			Start:  intField(m, "start"),
			Length: intField(m, "length"),
		})
	}
	return out, nil
}

func intField(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
