// Package manifest defines the payload and assertion data model carried
// inside a wrapper's manifest store, plus canonical CBOR and JSON
// serializers for signing those payloads deterministically.
package manifest

// BasicPayload is the lightweight carrier used by the legacy basic
// embedding format, signed as a whole by pkg/legacysign. All fields are
// optional.
type BasicPayload struct {
	ModelID        string         `json:"model_id,omitempty" cbor:"model_id,omitempty"`
	Organization   string         `json:"organization,omitempty" cbor:"organization,omitempty"`
	CustomMetadata map[string]any `json:"custom_metadata,omitempty" cbor:"custom_metadata,omitempty"`
	Timestamp      any            `json:"timestamp,omitempty" cbor:"timestamp,omitempty"`
	Version        string         `json:"version,omitempty" cbor:"version,omitempty"`
}

// LegacyAssertion is one entry of a LegacyManifest's assertion list.
type LegacyAssertion struct {
	Label string         `json:"label" cbor:"label"`
	When  string         `json:"when,omitempty" cbor:"when,omitempty"`
	Data  map[string]any `json:"data" cbor:"data"`
}

// LegacyManifest is the pre-C2PA manifest payload carrier, serializable as
// either canonical JSON or canonical CBOR.
type LegacyManifest struct {
	ClaimGenerator string            `json:"claim_generator" cbor:"claim_generator"`
	Assertions     []LegacyAssertion `json:"assertions" cbor:"assertions"`
	AIAssertion    map[string]any    `json:"ai_assertion,omitempty" cbor:"ai_assertion,omitempty"`
	CustomClaims   map[string]any    `json:"custom_claims,omitempty" cbor:"custom_claims,omitempty"`
	Timestamp      string            `json:"timestamp,omitempty" cbor:"timestamp,omitempty"`
}

// Action is one entry of a C2PA manifest's actions list.
type Action struct {
	Label         string `json:"action" cbor:"action"`
	SoftwareAgent string `json:"softwareAgent,omitempty" cbor:"softwareAgent,omitempty"`
	When          string `json:"when,omitempty" cbor:"when,omitempty"`
	Description   string `json:"description,omitempty" cbor:"description,omitempty"`
}

// ActionsAssertionData is the `c2pa.actions.v1` assertion body.
type ActionsAssertionData struct {
	Actions []Action `json:"actions" cbor:"actions"`
}

// SoftBindingAssertionData is the `c2pa.soft_binding.v1` assertion body.
type SoftBindingAssertionData struct {
	Alg         string `json:"alg" cbor:"alg"`
	Hash        string `json:"hash" cbor:"hash"`
	AlgorithmID string `json:"algorithm_id" cbor:"algorithm_id"`
}

// ExclusionRange mirrors textnorm.Exclusion in wire-serializable form.
type ExclusionRange struct {
	Start  int `json:"start" cbor:"start"`
	Length int `json:"length" cbor:"length"`
}

// HardBindingAssertionData is the `c2pa.hash.data.v1` assertion body.
type HardBindingAssertionData struct {
	Alg        string           `json:"alg" cbor:"alg"`
	Hash       string           `json:"hash" cbor:"hash"`
	Exclusions []ExclusionRange `json:"exclusions" cbor:"exclusions"`
}

// Assertion label constants, as named by spec.
const (
	LabelActions     = "c2pa.actions.v1"
	LabelSoftBinding = "c2pa.soft_binding.v1"
	LabelHardBinding = "c2pa.hash.data.v1"

	AlgorithmIDVariationSelector = "encypher.unicode_variation_selector.v1"
)

// Assertion is one entry of a C2PAManifest's assertion list. Data holds
// the assertion body; NormalizeAssertions gives it the typed struct form
// selected by Label for the labels this package knows.
type Assertion struct {
	Label string `json:"label" cbor:"label"`
	Data  any    `json:"data" cbor:"data"`
}

// C2PAManifest is the primary signed payload: the claim, its action log,
// and the binding assertions that tie it to the carrying text.
type C2PAManifest struct {
	ClaimGenerator string         `json:"claim_generator" cbor:"claim_generator"`
	Actions        []Action       `json:"actions" cbor:"actions"`
	Assertions     []Assertion    `json:"assertions" cbor:"assertions"`
	InstanceID     string         `json:"instance_id" cbor:"instance_id"`
	AIAssertion    map[string]any `json:"ai_assertion,omitempty" cbor:"ai_assertion,omitempty"`
	CustomClaims   map[string]any `json:"custom_claims,omitempty" cbor:"custom_claims,omitempty"`
}

// SoftBinding returns the manifest's c2pa.soft_binding.v1 assertion data,
// if present.
func (m *C2PAManifest) SoftBinding() (SoftBindingAssertionData, bool) {
	for _, a := range m.Assertions {
		if a.Label == LabelSoftBinding {
			if d, ok := a.Data.(SoftBindingAssertionData); ok {
				return d, true
			}
		}
	}
	return SoftBindingAssertionData{}, false
}

// HardBinding returns the manifest's c2pa.hash.data.v1 assertion data, if
// present — hard binding is optional, present iff enabled at embed time.
func (m *C2PAManifest) HardBinding() (HardBindingAssertionData, bool) {
	for _, a := range m.Assertions {
		if a.Label == LabelHardBinding {
			if d, ok := a.Data.(HardBindingAssertionData); ok {
				return d, true
			}
		}
	}
	return HardBindingAssertionData{}, false
}

// FormatTag identifies which legacy wire shape a Signed Envelope carries.
type FormatTag string

const (
	FormatBasic        FormatTag = "basic"
	FormatManifestJSON FormatTag = "manifest-json"
	FormatManifestCBOR FormatTag = "manifest-cbor"
)

// LegacyEnvelope is the Signed Envelope shape used by legacy (non-C2PA)
// embeddings: a flat signature over opaque payload bytes.
type LegacyEnvelope struct {
	PayloadBytes []byte    `json:"payload_bytes" cbor:"payload_bytes"`
	Signature    []byte    `json:"signature" cbor:"signature"`
	SignerID     string    `json:"signer_id" cbor:"signer_id"`
	FormatTag    FormatTag `json:"format_tag" cbor:"format_tag"`
}
