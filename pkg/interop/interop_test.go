package interop

import (
	"crypto/ed25519"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/encypher-ai/pkg/manifest"
)

func TestExternalToInternalBasicFields(t *testing.T) {
	dict := Dict{
		"claim_generator": "encypher-ai/1.0",
		"instance_id":     "11111111-1111-4111-8111-111111111111",
		"actions": []any{
			map[string]any{"action": "c2pa.created"},
		},
		"assertions": []any{
			map[string]any{"label": manifest.LabelSoftBinding, "data": map[string]any{
				"alg": "sha256", "hash": "deadbeef", "algorithm_id": manifest.AlgorithmIDVariationSelector,
			}},
		},
		"custom_claims": map[string]any{"note": "test"},
	}

	bridged, err := ExternalToInternal(dict)
	require.NoError(t, err)
	assert.Equal(t, "encypher-ai/1.0", bridged.Manifest.ClaimGenerator)
	assert.Equal(t, "11111111-1111-4111-8111-111111111111", bridged.Manifest.InstanceID)
	require.Len(t, bridged.Manifest.Actions, 1)
	assert.Equal(t, "c2pa.created", bridged.Manifest.Actions[0].Label)

	sb, ok := bridged.Manifest.SoftBinding()
	require.True(t, ok)
	assert.Equal(t, "deadbeef", sb.Hash)
	assert.Nil(t, bridged.PublicKey)
}

func TestExternalToInternalLegacyAIInfoAlias(t *testing.T) {
	dict := Dict{
		"claim_generator": "g",
		"ai_info":         map[string]any{"model": "gpt"},
	}
	bridged, err := ExternalToInternal(dict)
	require.NoError(t, err)
	assert.Equal(t, "gpt", bridged.Manifest.AIAssertion["model"])
}

func TestInternalToExternalRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	m := &manifest.C2PAManifest{
		ClaimGenerator: "encypher-ai/1.0",
		InstanceID:     "11111111-1111-4111-8111-111111111111",
		Actions:        []manifest.Action{{Label: "c2pa.created"}},
		Assertions: []manifest.Assertion{
			{Label: manifest.LabelSoftBinding, Data: manifest.SoftBindingAssertionData{
				Alg: "sha256", Hash: "deadbeef", AlgorithmID: manifest.AlgorithmIDVariationSelector,
			}},
		},
	}

	dict, err := InternalToExternal(m, pub)
	require.NoError(t, err)
	assert.Equal(t, "encypher-ai/1.0", dict["claim_generator"])
	require.Contains(t, dict, "verificationMethod")

	bridged, err := ExternalToInternal(dict)
	require.NoError(t, err)
	assert.Equal(t, m.ClaimGenerator, bridged.Manifest.ClaimGenerator)
	assert.Equal(t, pub, bridged.PublicKey)

	sb, ok := bridged.Manifest.SoftBinding()
	require.True(t, ok)
	assert.Equal(t, "deadbeef", sb.Hash)
}

func TestVerificationMethodAbsentByDefault(t *testing.T) {
	m := &manifest.C2PAManifest{ClaimGenerator: "g"}
	dict, err := InternalToExternal(m, nil)
	require.NoError(t, err)
	assert.NotContains(t, dict, "verificationMethod")
}

func TestDataEncodingCborBase64(t *testing.T) {
	inner := map[string]any{"k": "v"}
	raw, err := manifest.MarshalCBOR(inner)
	require.NoError(t, err)

	dict := Dict{
		"assertions": []any{
			map[string]any{
				"label":         "custom.blob",
				"data_encoding": "cbor_base64",
				"data":          base64.StdEncoding.EncodeToString(raw),
			},
		},
	}
	bridged, err := ExternalToInternal(dict)
	require.NoError(t, err)
	require.Len(t, bridged.Manifest.Assertions, 1)
	m, ok := bridged.Manifest.Assertions[0].Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "v", m["k"])
}
