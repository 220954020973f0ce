// Package assembler builds, signs, and wraps a C2PA manifest: the
// soft-binding/hard-binding assertion graph, the fixed-point iteration
// needed because the hard binding's exclusion range covers the wrapper
// itself, and the final JUMBF + COSE_Sign1 packaging.
package assembler

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/cose"
	"github.com/encypherai/encypher-ai/pkg/jumbf"
	"github.com/encypherai/encypher-ai/pkg/manifest"
	"github.com/encypherai/encypher-ai/pkg/signing"
	"github.com/encypherai/encypher-ai/pkg/textnorm"
)

// maxFixedPointIterations bounds the hard-binding exclusion loop. In
// practice the manifest store's length stabilizes within 2 iterations;
// 4 leaves headroom without risking silent non-termination.
const maxFixedPointIterations = 4

// BuildOptions configures Assemble.
type BuildOptions struct {
	ClaimGenerator string
	Actions        []manifest.Action
	AIAssertion    map[string]any
	CustomClaims   map[string]any
	AddHardBinding bool
}

// Result is everything Assemble produces: the signed manifest store
// ready for wrapping, and the manifest model it was built from (for
// callers that want to inspect assertions without re-parsing).
type Result struct {
	ManifestStore []byte
	Manifest      *manifest.C2PAManifest
}

// Assemble builds a C2PA manifest for normalizedText, signs it, and
// packages it into a JUMBF manifest store. When opts.AddHardBinding is
// set, it iterates the exclusion fixed point described in spec §4.6,
// since the hard-binding assertion's exclusion range covers the
// wrapper's own eventual length.
func Assemble(normalizedText string, signer signing.Signer, opts BuildOptions) (*Result, error) {
	actions := opts.Actions
	if len(actions) == 0 {
		actions = []manifest.Action{{Label: "c2pa.created"}}
	}

	m := &manifest.C2PAManifest{
		ClaimGenerator: opts.ClaimGenerator,
		Actions:        actions,
		InstanceID:     uuid.NewString(),
		AIAssertion:    opts.AIAssertion,
		CustomClaims:   opts.CustomClaims,
	}

	softBindingHash, err := hashActions(actions)
	if err != nil {
		return nil, err
	}
	m.Assertions = []manifest.Assertion{
		{Label: manifest.LabelActions, Data: manifest.ActionsAssertionData{Actions: actions}},
		{Label: manifest.LabelSoftBinding, Data: manifest.SoftBindingAssertionData{
			Alg:         "sha256",
			Hash:        softBindingHash,
			AlgorithmID: manifest.AlgorithmIDVariationSelector,
		}},
	}

	normalizedBytes := []byte(normalizedText)

	if !opts.AddHardBinding {
		store, err := signAndPackage(m, signer)
		if err != nil {
			return nil, err
		}
		return &Result{ManifestStore: store, Manifest: m}, nil
	}

	wrapperLenGuess := 13
	for i := 0; i < maxFixedPointIterations; i++ {
		exclusions := []manifest.ExclusionRange{{Start: len(normalizedBytes), Length: wrapperLenGuess}}

		hardBinding, err := hashWithExclusions(normalizedText, exclusions)
		if err != nil {
			return nil, err
		}

		m.Assertions = withHardBinding(m.Assertions, hardBinding)

		store, err := signAndPackage(m, signer)
		if err != nil {
			return nil, err
		}

		if len(store)+13 == wrapperLenGuess {
			return &Result{ManifestStore: store, Manifest: m}, nil
		}
		wrapperLenGuess = len(store) + 13
	}

	return nil, codecerr.New(codecerr.ExclusionFixedPointDivergence)
}

func withHardBinding(assertions []manifest.Assertion, data manifest.HardBindingAssertionData) []manifest.Assertion {
	out := make([]manifest.Assertion, 0, len(assertions)+1)
	for _, a := range assertions {
		if a.Label == manifest.LabelHardBinding {
			continue
		}
		out = append(out, a)
	}
	out = append(out, manifest.Assertion{Label: manifest.LabelHardBinding, Data: data})
	return out
}

func hashActions(actions []manifest.Action) (string, error) {
	tree, err := manifest.ToCanonicalTree(manifest.ActionsAssertionData{Actions: actions})
	if err != nil {
		return "", codecerr.Wrap(codecerr.InvalidPayload, err)
	}
	encoded, err := manifest.MarshalJSON(tree)
	if err != nil {
		return "", codecerr.Wrap(codecerr.InvalidPayload, err)
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

func hashWithExclusions(normalizedText string, exclusions []manifest.ExclusionRange) (manifest.HardBindingAssertionData, error) {
	textnormExclusions := make([]textnorm.Exclusion, len(exclusions))
	for i, e := range exclusions {
		textnormExclusions[i] = textnorm.Exclusion{Start: e.Start, Length: e.Length}
	}

	digest, err := textnorm.Hash(normalizedText, textnormExclusions)
	if err != nil {
		return manifest.HardBindingAssertionData{}, err
	}

	return manifest.HardBindingAssertionData{
		Alg:        "sha256",
		Hash:       digest.Hex,
		Exclusions: exclusions,
	}, nil
}

func signAndPackage(m *manifest.C2PAManifest, signer signing.Signer) ([]byte, error) {
	payload, err := manifest.MarshalCBOR(m)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.InvalidPayload, err)
	}

	sign1, err := cose.Sign(payload, signer)
	if err != nil {
		return nil, err
	}

	sign1Bytes, err := sign1.MarshalCBOR()
	if err != nil {
		return nil, codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}

	return jumbf.Wrap(sign1Bytes), nil
}
