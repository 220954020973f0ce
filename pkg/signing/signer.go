// Package signing provides the abstract signing capability and key
// resolution used by the C2PA and legacy signed envelopes: an Ed25519
// signer keyed by a caller-chosen signer ID, and a pluggable resolver
// that maps a signer ID back to its verification key at verify time.
package signing

import (
	"crypto/ed25519"
	"crypto/x509"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
)

// Signer produces Ed25519 signatures and identifies itself by a signer
// ID that a Resolver can later turn back into a verification key.
// Implementations may hold the private key in memory (SoftwareSigner) or
// delegate to an external keystore.
type Signer interface {
	// Sign returns the Ed25519 signature over data.
	Sign(data []byte) ([]byte, error)

	// SignerID returns the identifier embedded in signed envelopes (the
	// COSE protected header's kid, or the legacy envelope's signer_id).
	SignerID() string

	// PublicKey returns the signer's Ed25519 public key.
	PublicKey() ed25519.PublicKey
}

// Resolver maps a signer ID to its verification key, as recorded at
// embed time in a signed envelope. A nil, nil, non-nil return means the
// signer ID is unknown to this resolver.
type Resolver interface {
	Resolve(signerID string) (ed25519.PublicKey, []*x509.Certificate, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(signerID string) (ed25519.PublicKey, []*x509.Certificate, error)

func (f ResolverFunc) Resolve(signerID string) (ed25519.PublicKey, []*x509.Certificate, error) {
	return f(signerID)
}

// StaticResolver resolves a fixed set of signer IDs to public keys known
// up front — the common case for embedders that also hold the private
// keys they sign with.
type StaticResolver struct {
	keys map[string]ed25519.PublicKey
}

// NewStaticResolver builds a StaticResolver from the given signer-ID to
// public-key mapping.
func NewStaticResolver(keys map[string]ed25519.PublicKey) *StaticResolver {
	clone := make(map[string]ed25519.PublicKey, len(keys))
	for id, key := range keys {
		clone[id] = key
	}
	return &StaticResolver{keys: clone}
}

// Resolve implements Resolver.
func (r *StaticResolver) Resolve(signerID string) (ed25519.PublicKey, []*x509.Certificate, error) {
	key, ok := r.keys[signerID]
	if !ok {
		return nil, nil, codecerr.New(codecerr.UnknownSigner)
	}
	return key, nil, nil
}
