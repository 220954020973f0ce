// Package cose implements a narrowed, EdDSA-only COSE_Sign1 envelope
// (RFC 8152) for the C2PA signed payload path. Unlike a general-purpose
// COSE library, it supports exactly one algorithm and one key type,
// matching spec.md's signer/verifier contract.
package cose

import (
	"crypto/ed25519"

	"github.com/fxamacker/cbor/v2"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/signing"
)

// AlgorithmEdDSA is the COSE algorithm identifier for EdDSA (RFC 8152,
// value -8). It is the only algorithm this package produces or accepts.
const AlgorithmEdDSA int64 = -8

// header label constants, per RFC 8152 §3.1.
const (
	headerAlgorithm int64 = 1
	headerKeyID     int64 = 4
)

// protectedHeader is the COSE_Sign1 protected header, restricted to the
// two labels spec.md's wire format uses.
type protectedHeader struct {
	Alg int64  `cbor:"1,keyasint"`
	Kid string `cbor:"4,keyasint"`
}

// Sign1 is a COSE_Sign1 structure per RFC 8152 §4.2, tagged 18.
type Sign1 struct {
	Protected   []byte
	Unprotected map[any]any
	Payload     []byte
	Signature   []byte
}

// SignerID returns the protected header's kid, decoding it from the
// already-built Protected bytes.
func (s *Sign1) SignerID() (string, error) {
	var h protectedHeader
	if err := cbor.Unmarshal(s.Protected, &h); err != nil {
		return "", codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}
	return h.Kid, nil
}

// MarshalCBOR implements cbor.Marshaler, emitting the RFC 8152 tag-18
// four-element array form.
func (s *Sign1) MarshalCBOR() ([]byte, error) {
	arr := []any{s.Protected, s.Unprotected, s.Payload, s.Signature}
	return cbor.Marshal(cbor.Tag{Number: 18, Content: arr})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (s *Sign1) UnmarshalCBOR(data []byte) error {
	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}
	if tag.Number != 18 {
		return codecerr.New(codecerr.MalformedEnvelope)
	}

	arr, ok := tag.Content.([]any)
	if !ok || len(arr) != 4 {
		return codecerr.New(codecerr.MalformedEnvelope)
	}

	protected, ok := arr[0].([]byte)
	if !ok {
		return codecerr.New(codecerr.MalformedEnvelope)
	}
	payload, ok := arr[2].([]byte)
	if !ok {
		return codecerr.New(codecerr.MalformedEnvelope)
	}
	signature, ok := arr[3].([]byte)
	if !ok {
		return codecerr.New(codecerr.MalformedEnvelope)
	}

	s.Protected = protected
	s.Payload = payload
	s.Signature = signature
	if m, ok := arr[1].(map[any]any); ok {
		s.Unprotected = m
	} else {
		s.Unprotected = map[any]any{}
	}
	return nil
}

// sigStructure builds the COSE Sig_structure per RFC 8152 §4.4: a CBOR
// array of ["Signature1", protected, external_aad, payload].
func sigStructure(protected, externalAAD, payload []byte) ([]byte, error) {
	arr := []any{"Signature1", protected, externalAAD, payload}
	return cbor.Marshal(arr)
}

// Sign builds a COSE_Sign1 over payload, with protected header
// {1: -8, 4: signer.SignerID()}, external_aad of zero length, and a
// signature over the resulting Sig_structure produced by signer — a
// software key or an HSM/KMS-backed implementation, transparently.
func Sign(payload []byte, signer signing.Signer) (*Sign1, error) {
	protected, err := cbor.Marshal(protectedHeader{Alg: AlgorithmEdDSA, Kid: signer.SignerID()})
	if err != nil {
		return nil, codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}

	toBeSigned, err := sigStructure(protected, []byte{}, payload)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}

	signature, err := signer.Sign(toBeSigned)
	if err != nil {
		return nil, err
	}

	return &Sign1{
		Protected:   protected,
		Unprotected: map[any]any{},
		Payload:     payload,
		Signature:   signature,
	}, nil
}

// Verify checks sign1's signature against pubKey, re-deriving the
// Sig_structure from its protected header and payload. It returns the
// signer ID from the protected header on success.
func Verify(sign1 *Sign1, pubKey ed25519.PublicKey) (signerID string, err error) {
	var h protectedHeader
	if err := cbor.Unmarshal(sign1.Protected, &h); err != nil {
		return "", codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}
	if h.Alg != AlgorithmEdDSA {
		return "", codecerr.New(codecerr.UnsupportedFormat)
	}

	toBeSigned, err := sigStructure(sign1.Protected, []byte{}, sign1.Payload)
	if err != nil {
		return "", codecerr.Wrap(codecerr.MalformedEnvelope, err)
	}

	if !ed25519.Verify(pubKey, toBeSigned, sign1.Signature) {
		return "", codecerr.New(codecerr.BadSignature)
	}
	return h.Kid, nil
}
