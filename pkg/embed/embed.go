// Package embed exposes this module's public entry points: embedding a
// payload into text (C2PA or legacy basic/manifest formats), extracting
// an embedded payload without verification, and verifying a signed one.
package embed

import (
	"crypto/ed25519"

	"github.com/encypherai/encypher-ai/pkg/assembler"
	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/cose"
	"github.com/encypherai/encypher-ai/pkg/jumbf"
	"github.com/encypherai/encypher-ai/pkg/legacysign"
	"github.com/encypherai/encypher-ai/pkg/manifest"
	"github.com/encypherai/encypher-ai/pkg/signing"
	"github.com/encypherai/encypher-ai/pkg/sitepolicy"
	"github.com/encypherai/encypher-ai/pkg/textnorm"
	"github.com/encypherai/encypher-ai/pkg/wrapper"
)

// Options configures an embed call. Not every field applies to every
// format: Target and DistributeAcrossTargets are legacy-only, and
// AddHardBinding only affects the C2PA path.
type Options struct {
	// AddHardBinding defaults to true for C2PA embeds; pass false for
	// content that will be streamed (hard binding needs a final length).
	AddHardBinding *bool

	// Target selects the legacy site-selection policy. Defaults to
	// TargetEndOfTextWithFEFF when unset.
	Target sitepolicy.Target

	// DistributeAcrossTargets interleaves the payload across every site
	// Target matches instead of only the first.
	DistributeAcrossTargets bool

	// DistributionFanout bounds how many payload bytes land at each site
	// in distributed mode. Zero uses a fanout of 3.
	DistributionFanout int

	// OmitKeys removes these keys from a Basic payload's CustomMetadata
	// before signing.
	OmitKeys []string

	ClaimGenerator string
	Actions        []manifest.Action
	AIAssertion    map[string]any
	CustomClaims   map[string]any
}

func (o Options) hardBindingDefault(fallback bool) bool {
	if o.AddHardBinding == nil {
		return fallback
	}
	return *o.AddHardBinding
}

func (o Options) target() sitepolicy.Target {
	if o.Target == "" {
		return sitepolicy.TargetEndOfTextWithFEFF
	}
	return o.Target
}

func (o Options) fanout() int {
	if o.DistributionFanout <= 0 {
		return 3
	}
	return o.DistributionFanout
}

func placeEnvelope(text string, env *manifest.LegacyEnvelope, opts Options) (string, error) {
	payload, err := manifest.MarshalCBOR(env)
	if err != nil {
		return "", codecerr.Wrap(codecerr.InvalidPayload, err)
	}

	if opts.DistributeAcrossTargets {
		return sitepolicy.InsertDistributed(text, opts.target(), payload, opts.fanout())
	}
	return sitepolicy.Insert(text, opts.target(), payload)
}

// EmbedBasic signs a Basic payload with signer and embeds it at a legacy
// site.
func EmbedBasic(text string, payload *manifest.BasicPayload, signer signing.Signer, opts Options) (string, error) {
	filtered := applyOmitKeys(payload, opts.OmitKeys)

	payloadBytes, err := manifest.MarshalCBOR(filtered)
	if err != nil {
		return "", codecerr.Wrap(codecerr.InvalidPayload, err)
	}

	env, err := legacysign.Sign(payloadBytes, signer, manifest.FormatBasic)
	if err != nil {
		return "", err
	}

	return placeEnvelope(text, env, opts)
}

func applyOmitKeys(payload *manifest.BasicPayload, omitKeys []string) *manifest.BasicPayload {
	if len(omitKeys) == 0 || payload.CustomMetadata == nil {
		return payload
	}
	filtered := make(map[string]any, len(payload.CustomMetadata))
	omit := make(map[string]bool, len(omitKeys))
	for _, k := range omitKeys {
		omit[k] = true
	}
	for k, v := range payload.CustomMetadata {
		if !omit[k] {
			filtered[k] = v
		}
	}
	out := *payload
	out.CustomMetadata = filtered
	return &out
}

// EmbedLegacyManifest signs a LegacyManifest payload (canonical JSON or
// canonical CBOR, selected by cborMode) with signer and embeds it at a
// legacy site.
func EmbedLegacyManifest(text string, payload *manifest.LegacyManifest, cborMode bool, signer signing.Signer, opts Options) (string, error) {
	formatTag := manifest.FormatManifestJSON
	var payloadBytes []byte
	var err error
	if cborMode {
		formatTag = manifest.FormatManifestCBOR
		payloadBytes, err = manifest.MarshalCBOR(payload)
	} else {
		payloadBytes, err = manifest.CanonicalJSON(payload)
	}
	if err != nil {
		return "", codecerr.Wrap(codecerr.InvalidPayload, err)
	}

	env, err := legacysign.Sign(payloadBytes, signer, formatTag)
	if err != nil {
		return "", err
	}

	return placeEnvelope(text, env, opts)
}

// EmbedC2PA builds, signs, and wraps a full C2PA manifest for text with
// signer, iterating the hard-binding fixed point unless disabled.
func EmbedC2PA(text string, signer signing.Signer, opts Options) (string, error) {
	normalized := textnorm.Normalize(text)

	result, err := assembler.Assemble(normalized, signer, assembler.BuildOptions{
		ClaimGenerator: opts.ClaimGenerator,
		Actions:        opts.Actions,
		AIAssertion:    opts.AIAssertion,
		CustomClaims:   opts.CustomClaims,
		AddHardBinding: opts.hardBindingDefault(true),
	})
	if err != nil {
		return "", err
	}

	wrapped, err := wrapper.Encode(result.ManifestStore)
	if err != nil {
		return "", err
	}

	return text + wrapped, nil
}

// VerifyOptions configures Verify.
type VerifyOptions struct {
	// RequireHardBinding defaults to true; disable for streamed content.
	RequireHardBinding *bool

	ReturnPayloadOnFailure bool
}

func (o VerifyOptions) requireHardBinding() bool {
	if o.RequireHardBinding == nil {
		return true
	}
	return *o.RequireHardBinding
}

// Result is the outcome of a successful Verify or a best-effort Extract.
type Result struct {
	IsValid  bool
	SignerID string

	// On success exactly one of these is set, depending on what text
	// carried; a failure result from Verify sets neither.
	C2PAManifest   *manifest.C2PAManifest
	LegacyEnvelope *manifest.LegacyEnvelope
}

// Extract returns a typed view of text's embedded payload without
// verifying any signature. It never errors on missing or malformed
// payloads — ok is false in those cases.
func Extract(text string) (result *Result, ok bool) {
	manifestStore, _, _, err := wrapper.Find(text)
	if err == nil && manifestStore != nil {
		m, parseErr := parseC2PAPayload(manifestStore)
		if parseErr != nil {
			return nil, false
		}
		return &Result{C2PAManifest: m}, true
	}

	payloadBytes, _, found := scanSelectorPayload(text)
	if !found {
		return nil, false
	}

	var env manifest.LegacyEnvelope
	if err := manifest.UnmarshalCBOR(payloadBytes, &env); err != nil {
		return nil, false
	}
	return &Result{SignerID: env.SignerID, LegacyEnvelope: &env}, true
}

// Verify checks text's embedded payload signature via resolver. It does
// not panic on a missing or malformed payload: every failure is returned
// as a non-nil err carrying the codecerr.Kind observed, together with a
// Result whose IsValid is false when opts.ReturnPayloadOnFailure is set,
// or a nil Result otherwise.
func Verify(text string, resolver signing.Resolver, opts VerifyOptions) (*Result, error) {
	manifestStore, cleanText, _, err := wrapper.Find(text)
	if err != nil {
		return failureResult(opts), err
	}
	if manifestStore != nil {
		normalized := textnorm.Normalize(cleanText)
		verified, err := assembler.Verify(manifestStore, normalized, resolver, assembler.VerifyOptions{
			RequireHardBinding: opts.requireHardBinding(),
		})
		if err != nil {
			return failureResult(opts), err
		}
		return &Result{IsValid: true, SignerID: verified.SignerID, C2PAManifest: verified.Manifest}, nil
	}

	payloadBytes, _, found := scanSelectorPayload(text)
	if !found {
		return failureResult(opts), codecerr.New(codecerr.InvalidPayload)
	}

	var env manifest.LegacyEnvelope
	if err := manifest.UnmarshalCBOR(payloadBytes, &env); err != nil {
		return failureResult(opts), codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}

	pubKey, _, err := resolver.Resolve(env.SignerID)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return failureResult(opts), codecerr.New(codecerr.UnknownSigner)
	}

	if err := legacysign.Verify(&env, pubKey); err != nil {
		return failureResult(opts), err
	}

	return &Result{IsValid: true, SignerID: env.SignerID, LegacyEnvelope: &env}, nil
}

func failureResult(opts VerifyOptions) *Result {
	if !opts.ReturnPayloadOnFailure {
		return nil
	}
	return &Result{IsValid: false}
}

// parseC2PAPayload recovers the manifest model from a manifest store
// without verifying its signature — Extract's contract never checks
// authenticity, only shape.
func parseC2PAPayload(manifestStore []byte) (*manifest.C2PAManifest, error) {
	sign1Bytes, err := jumbf.Unwrap(manifestStore)
	if err != nil {
		return nil, err
	}

	var sign1 cose.Sign1
	if err := sign1.UnmarshalCBOR(sign1Bytes); err != nil {
		return nil, err
	}

	var m manifest.C2PAManifest
	if err := manifest.UnmarshalCBOR(sign1.Payload, &m); err != nil {
		return nil, codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}

	normalized, err := manifest.NormalizeAssertions(m.Assertions)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}
	m.Assertions = normalized

	return &m, nil
}
