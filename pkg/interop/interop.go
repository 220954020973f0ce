// Package interop bridges the internal C2PA manifest model and an
// external, C2PA-like JSON dictionary: the shape third-party tools and
// older manifest distributions actually pass around. Conversion carries
// field values across; the historical aliases ExternalToInternal accepts
// and cbor_base64-encoded assertion data come back from
// InternalToExternal in their canonical, decoded form.
package interop

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/multiformats/go-multibase"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/manifest"
)

// multicodecEd25519Pub is the multicodec code for an Ed25519 public key
// (0xed). It is written as one raw prefix byte, not as the two-byte
// unsigned-varint form (0xed 0x01) that multikey encodings use, so keys
// round-trip through this package but are not read from or written in
// that form.
const multicodecEd25519Pub = 0xed

// Dict is the external, C2PA-like representation: field names matching
// the canonical internal ones, plus the optional verificationMethod
// extension this module adds.
type Dict map[string]any

// Bridged is the result of ExternalToInternal: the internal manifest
// plus the resolved verification key, if the external dict carried one.
type Bridged struct {
	Manifest  *manifest.C2PAManifest
	PublicKey ed25519.PublicKey // nil if the dict had no verificationMethod
}

// ExternalToInternal converts an external C2PA-like dictionary into the
// internal manifest model. Field names are carried across unchanged
// apart from "ai_info", a historical alias for "ai_assertion". A nested
// assertion's "data" field tagged with "data_encoding": "cbor_base64" is
// decoded from base64 then canonical CBOR before being stored.
func ExternalToInternal(dict Dict) (*Bridged, error) {
	m := &manifest.C2PAManifest{}

	if v, ok := dict["claim_generator"].(string); ok {
		m.ClaimGenerator = v
	}
	if v, ok := dict["instance_id"].(string); ok {
		m.InstanceID = v
	}

	if raw, ok := dict["actions"].([]any); ok {
		actions, err := decodeActionList(raw)
		if err != nil {
			return nil, codecerr.Wrap(codecerr.InvalidPayload, err)
		}
		m.Actions = actions
	}

	if raw, ok := dict["assertions"].([]any); ok {
		assertions, err := decodeAssertionList(raw)
		if err != nil {
			return nil, codecerr.Wrap(codecerr.InvalidPayload, err)
		}
		m.Assertions = assertions
	}

	if v, ok := dict["ai_assertion"].(map[string]any); ok {
		m.AIAssertion = v
	} else if v, ok := dict["ai_info"].(map[string]any); ok {
		// Historical field name predating the c2pa.org "ai_assertion"
		// convention; several legacy manifest distributors still emit it.
		m.AIAssertion = v
	}

	if v, ok := dict["custom_claims"].(map[string]any); ok {
		m.CustomClaims = v
	}

	bridged := &Bridged{Manifest: m}

	if vm, ok := dict["verificationMethod"].(map[string]any); ok {
		if mb, ok := vm["publicKeyMultibase"].(string); ok {
			pub, err := decodePublicKeyMultibase(mb)
			if err != nil {
				return nil, codecerr.Wrap(codecerr.InvalidPublicKey, err)
			}
			bridged.PublicKey = pub
		}
	}

	return bridged, nil
}

// InternalToExternal converts the internal manifest model back into an
// external dictionary, the reverse direction of ExternalToInternal.
// Assertion data is always emitted as a plain decoded tree: an assertion
// that arrived with "data_encoding": "cbor_base64" comes back decoded and
// without that marker. claim_generator and instance_id are always
// emitted, even when empty.
func InternalToExternal(m *manifest.C2PAManifest, pubKey ed25519.PublicKey) (Dict, error) {
	dict := Dict{
		"claim_generator": m.ClaimGenerator,
		"instance_id":     m.InstanceID,
	}

	if len(m.Actions) > 0 {
		dict["actions"] = encodeActionList(m.Actions)
	}
	if len(m.Assertions) > 0 {
		assertions, err := encodeAssertionList(m.Assertions)
		if err != nil {
			return nil, codecerr.Wrap(codecerr.InvalidPayload, err)
		}
		dict["assertions"] = assertions
	}
	if len(m.AIAssertion) > 0 {
		dict["ai_assertion"] = m.AIAssertion
	}
	if len(m.CustomClaims) > 0 {
		dict["custom_claims"] = m.CustomClaims
	}

	if len(pubKey) == ed25519.PublicKeySize {
		mb, err := encodePublicKeyMultibase(pubKey)
		if err != nil {
			return nil, codecerr.Wrap(codecerr.InvalidPublicKey, err)
		}
		dict["verificationMethod"] = map[string]any{"publicKeyMultibase": mb}
	}

	return dict, nil
}

func decodeActionList(raw []any) ([]manifest.Action, error) {
	out := make([]manifest.Action, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("action entry must be a mapping, got %T", item)
		}
		label, _ := entry["action"].(string)
		if label == "" {
			// Older distributions used "label" for the action name.
			label, _ = entry["label"].(string)
		}
		agent, _ := entry["softwareAgent"].(string)
		when, _ := entry["when"].(string)
		desc, _ := entry["description"].(string)
		out = append(out, manifest.Action{
			Label:         label,
			SoftwareAgent: agent,
			When:          when,
			Description:   desc,
		})
	}
	return out, nil
}

func encodeActionList(actions []manifest.Action) []any {
	out := make([]any, 0, len(actions))
	for _, a := range actions {
		entry := map[string]any{"action": a.Label}
		if a.SoftwareAgent != "" {
			entry["softwareAgent"] = a.SoftwareAgent
		}
		if a.When != "" {
			entry["when"] = a.When
		}
		if a.Description != "" {
			entry["description"] = a.Description
		}
		out = append(out, entry)
	}
	return out
}

func decodeAssertionList(raw []any) ([]manifest.Assertion, error) {
	out := make([]manifest.Assertion, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("assertion entry must be a mapping, got %T", item)
		}
		label, _ := entry["label"].(string)

		data := entry["data"]
		if entry["data_encoding"] == "cbor_base64" {
			encoded, ok := data.(string)
			if !ok {
				return nil, fmt.Errorf("assertion %q: data_encoding=cbor_base64 requires a string data field", label)
			}
			raw, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("assertion %q: invalid base64: %w", label, err)
			}
			var decoded map[string]any
			if err := manifest.UnmarshalCBOR(raw, &decoded); err != nil {
				return nil, fmt.Errorf("assertion %q: invalid CBOR: %w", label, err)
			}
			data = decoded
		}

		out = append(out, manifest.Assertion{Label: label, Data: data})
	}

	normalized, err := manifest.NormalizeAssertions(out)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

func encodeAssertionList(assertions []manifest.Assertion) ([]any, error) {
	out := make([]any, 0, len(assertions))
	for _, a := range assertions {
		tree, err := manifest.ToCanonicalTree(a.Data)
		if err != nil {
			return nil, fmt.Errorf("assertion %q: %w", a.Label, err)
		}
		out = append(out, map[string]any{
			"label": a.Label,
			"data":  tree,
		})
	}
	return out, nil
}

func encodePublicKeyMultibase(pub ed25519.PublicKey) (string, error) {
	prefixed := append([]byte{multicodecEd25519Pub}, pub...)
	return multibase.Encode(multibase.Base58BTC, prefixed)
}

func decodePublicKeyMultibase(s string) (ed25519.PublicKey, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(data) != 1+ed25519.PublicKeySize || data[0] != multicodecEd25519Pub {
		return nil, fmt.Errorf("interop: not a multibase-encoded Ed25519 public key")
	}
	return ed25519.PublicKey(data[1:]), nil
}
