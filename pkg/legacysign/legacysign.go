// Package legacysign implements the Ed25519 signing scheme used by the
// pre-C2PA basic and legacy manifest envelopes: a flat signature over
// the payload bytes tagged with their format, with no RDF canonicalization
// or proof-graph construction — a much smaller sibling of pkg/cose.
package legacysign

import (
	"crypto/ed25519"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/manifest"
	"github.com/encypherai/encypher-ai/pkg/signing"
)

// signingInput builds format_tag || 0x00 || payload_bytes, the exact byte
// sequence the legacy scheme signs and verifies.
func signingInput(formatTag manifest.FormatTag, payloadBytes []byte) []byte {
	out := make([]byte, 0, len(formatTag)+1+len(payloadBytes))
	out = append(out, formatTag...)
	out = append(out, 0x00)
	out = append(out, payloadBytes...)
	return out
}

// Sign produces a LegacyEnvelope for payloadBytes under formatTag, signed
// by signer and attributed to signer.SignerID().
func Sign(payloadBytes []byte, signer signing.Signer, formatTag manifest.FormatTag) (*manifest.LegacyEnvelope, error) {
	signature, err := signer.Sign(signingInput(formatTag, payloadBytes))
	if err != nil {
		return nil, err
	}
	return &manifest.LegacyEnvelope{
		PayloadBytes: payloadBytes,
		Signature:    signature,
		SignerID:     signer.SignerID(),
		FormatTag:    formatTag,
	}, nil
}

// Verify checks env's signature against pubKey, recomputing the signing
// input from env's own payload bytes and format tag.
func Verify(env *manifest.LegacyEnvelope, pubKey ed25519.PublicKey) error {
	if len(pubKey) != ed25519.PublicKeySize {
		return codecerr.New(codecerr.InvalidPublicKey)
	}
	if !ed25519.Verify(pubKey, signingInput(env.FormatTag, env.PayloadBytes), env.Signature) {
		return codecerr.New(codecerr.BadSignature)
	}
	return nil
}
