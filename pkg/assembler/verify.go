package assembler

import (
	"crypto/ed25519"
	"crypto/x509"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/cose"
	"github.com/encypherai/encypher-ai/pkg/jumbf"
	"github.com/encypherai/encypher-ai/pkg/manifest"
	"github.com/encypherai/encypher-ai/pkg/signing"
	"github.com/encypherai/encypher-ai/pkg/textnorm"
)

// VerifyOptions configures Verify.
type VerifyOptions struct {
	// RequireHardBinding defaults to true at the caller (pkg/embed); set
	// false for content that was embedded without hard binding (e.g. a
	// streamed session).
	RequireHardBinding bool
}

// VerifyResult is the outcome of verifying a manifest store against its
// carrying text.
type VerifyResult struct {
	SignerID string
	Manifest *manifest.C2PAManifest
}

// Verify unpacks manifestStore, verifies its COSE_Sign1 signature via
// resolver, re-derives the soft-binding digest, and — when a hard
// binding is present and opts.RequireHardBinding is set — recomputes the
// exclusion-aware hash of normalizedText and compares it. normalizedText
// must be the NFC-normalized form of the full carrying text (wrapper
// included in byte-offset accounting, excluded from the actual hash via
// the stored exclusion range).
func Verify(manifestStore []byte, normalizedText string, resolver signing.Resolver, opts VerifyOptions) (*VerifyResult, error) {
	sign1Bytes, err := jumbf.Unwrap(manifestStore)
	if err != nil {
		return nil, err
	}

	var sign1 cose.Sign1
	if err := sign1.UnmarshalCBOR(sign1Bytes); err != nil {
		return nil, err
	}

	signerID, err := sign1.SignerID()
	if err != nil {
		return nil, err
	}

	pubKey, _, err := resolver.Resolve(signerID)
	if err != nil {
		return nil, codecerr.New(codecerr.UnknownSigner)
	}
	if len(pubKey) != ed25519.PublicKeySize {
		return nil, codecerr.New(codecerr.UnknownSigner)
	}

	if _, err := cose.Verify(&sign1, pubKey); err != nil {
		return nil, err
	}

	var m manifest.C2PAManifest
	if err := manifest.UnmarshalCBOR(sign1.Payload, &m); err != nil {
		return nil, codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}
	normalizedAssertions, err := manifest.NormalizeAssertions(m.Assertions)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}
	m.Assertions = normalizedAssertions

	if err := verifySoftBinding(&m); err != nil {
		return nil, err
	}

	if opts.RequireHardBinding {
		if err := verifyHardBinding(&m, normalizedText); err != nil {
			return nil, err
		}
	}

	return &VerifyResult{SignerID: signerID, Manifest: &m}, nil
}

func verifySoftBinding(m *manifest.C2PAManifest) error {
	sb, ok := m.SoftBinding()
	if !ok {
		return codecerr.New(codecerr.SoftBindingMismatch)
	}
	expectedHash, err := hashActions(m.Actions)
	if err != nil {
		return err
	}
	if sb.Hash != expectedHash {
		return codecerr.New(codecerr.SoftBindingMismatch)
	}
	return nil
}

func verifyHardBinding(m *manifest.C2PAManifest, normalizedText string) error {
	hb, ok := m.HardBinding()
	if !ok {
		// Hard binding is optional; its absence is not a verification
		// failure unless the caller specifically required it, which is
		// the caller's responsibility to decide before calling Verify.
		return nil
	}

	exclusions := make([]textnorm.Exclusion, len(hb.Exclusions))
	for i, e := range hb.Exclusions {
		exclusions[i] = textnorm.Exclusion{Start: e.Start, Length: e.Length}
	}

	digest, err := textnorm.Hash(normalizedText, exclusions)
	if err != nil {
		return err
	}
	if digest.Hex != hb.Hash {
		return codecerr.New(codecerr.HardBindingMismatch)
	}
	return nil
}
