package signing

import (
	"crypto/ed25519"
	"fmt"
)

// SoftwareSigner implements Signer using an in-memory Ed25519 private
// key. It is the only Signer backend this module ships; an HSM- or
// KMS-backed implementation satisfies the same interface without
// changing any caller.
type SoftwareSigner struct {
	privateKey ed25519.PrivateKey
	signerID   string
}

// NewSoftwareSigner wraps an Ed25519 private key as a Signer identified
// by signerID.
func NewSoftwareSigner(privateKey ed25519.PrivateKey, signerID string) (*SoftwareSigner, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signing: invalid Ed25519 private key size %d", len(privateKey))
	}
	if signerID == "" {
		return nil, fmt.Errorf("signing: signerID must not be empty")
	}
	return &SoftwareSigner{privateKey: privateKey, signerID: signerID}, nil
}

// Sign implements Signer.
func (s *SoftwareSigner) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(s.privateKey, data), nil
}

// SignerID implements Signer.
func (s *SoftwareSigner) SignerID() string {
	return s.signerID
}

// PublicKey implements Signer.
func (s *SoftwareSigner) PublicKey() ed25519.PublicKey {
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, s.privateKey.Public().(ed25519.PublicKey))
	return pub
}
