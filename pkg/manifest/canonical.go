package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode is the single canonical CBOR mode used to produce every
// signed byte sequence in this package: sorted map keys, shortest-form
// integers, no indefinite-length items — deterministic for any two
// semantically equal values.
var cborEncMode = mustCBOREncMode()

var cborDecMode = mustCBORDecMode()

func mustCBOREncMode() cbor.EncMode {
	opts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("manifest: invalid canonical CBOR encode options: %v", err))
	}
	return mode
}

func mustCBORDecMode() cbor.DecMode {
	opts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	mode, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("manifest: invalid canonical CBOR decode options: %v", err))
	}
	return mode
}

// MarshalCBOR encodes v to canonical CBOR: sorted map keys and shortest-
// form integers. Two semantically equal values always produce identical
// bytes.
func MarshalCBOR(v any) ([]byte, error) {
	return cborEncMode.Marshal(v)
}

// UnmarshalCBOR decodes canonical CBOR into v.
func UnmarshalCBOR(data []byte, v any) error {
	return cborDecMode.Unmarshal(data, v)
}

// MarshalJSON encodes v to canonical JSON: mapping keys sorted ascending
// by code point, no insignificant whitespace, no floats. v must already
// be (or decompose into) one of nil, bool, string, int64/float64 whole
// numbers, []any, or map[string]any — struct values should be converted
// via ToCanonicalTree first.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonicalJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonicalJSON(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		token, err := jsonStringToken(val)
		if err != nil {
			return err
		}
		buf.Write(token)
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		if val != float64(int64(val)) {
			return fmt.Errorf("manifest: floats are forbidden in canonical JSON, got %v", val)
		}
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyToken, err := jsonStringToken(k)
			if err != nil {
				return err
			}
			buf.Write(keyToken)
			buf.WriteByte(':')
			if err := writeCanonicalJSON(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("manifest: %T is not representable in canonical JSON; convert to a map[string]any tree first", v)
	}
	return nil
}

// jsonStringToken renders s as a quoted JSON string token — unlike
// strconv.Quote, which produces Go string-literal escapes (\xHH, \a, \v)
// that are not legal JSON, this defers to encoding/json's string
// encoding and only disables its default HTML-escaping so the output
// matches what any other JSON library would produce for the same bytes.
func jsonStringToken(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("manifest: encoding JSON string: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
