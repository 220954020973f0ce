package signing

import (
	"crypto/ed25519"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
)

func TestSoftwareSignerSignAndVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	signer, err := NewSoftwareSigner(priv, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", signer.SignerID())
	assert.Equal(t, pub, signer.PublicKey())

	sig, err := signer.Sign([]byte("payload"))
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, []byte("payload"), sig))
}

func TestNewSoftwareSignerRejectsBadKey(t *testing.T) {
	_, err := NewSoftwareSigner(ed25519.PrivateKey{0x01}, "s1")
	assert.Error(t, err)
}

func TestNewSoftwareSignerRejectsEmptyID(t *testing.T) {
	_, priv, _ := ed25519.GenerateKey(nil)
	_, err := NewSoftwareSigner(priv, "")
	assert.Error(t, err)
}

func TestStaticResolver(t *testing.T) {
	pub, _, _ := ed25519.GenerateKey(nil)
	r := NewStaticResolver(map[string]ed25519.PublicKey{"s1": pub})

	got, certs, err := r.Resolve("s1")
	require.NoError(t, err)
	assert.Equal(t, pub, got)
	assert.Nil(t, certs)
}

func TestStaticResolverUnknownSigner(t *testing.T) {
	r := NewStaticResolver(nil)
	_, _, err := r.Resolve("missing")
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.UnknownSigner))
}

func TestResolverFunc(t *testing.T) {
	pub, _, _ := ed25519.GenerateKey(nil)
	var r Resolver = ResolverFunc(func(signerID string) (ed25519.PublicKey, []*x509.Certificate, error) {
		return pub, nil, nil
	})
	got, _, err := r.Resolve("anything")
	require.NoError(t, err)
	assert.Equal(t, pub, got)
}
