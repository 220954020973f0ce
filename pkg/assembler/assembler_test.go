package assembler

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/signing"
	"github.com/encypherai/encypher-ai/pkg/textnorm"
)

func newTestSigner(t *testing.T) (ed25519.PublicKey, signing.Signer) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := signing.NewSoftwareSigner(priv, "s1")
	require.NoError(t, err)
	return pub, signer
}

func TestAssembleAndVerifyWithHardBinding(t *testing.T) {
	pub, signer := newTestSigner(t)

	text := textnorm.Normalize("The quick brown fox jumps over the lazy dog.")
	result, err := Assemble(text, signer, BuildOptions{
		ClaimGenerator: "encypher-ai/1.0",
		AddHardBinding: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ManifestStore)

	hb, ok := result.Manifest.HardBinding()
	require.True(t, ok)
	assert.Equal(t, len([]byte(text)), hb.Exclusions[0].Start)

	resolver := signing.NewStaticResolver(map[string]ed25519.PublicKey{"s1": pub})
	verified, err := Verify(result.ManifestStore, text, resolver, VerifyOptions{RequireHardBinding: true})
	require.NoError(t, err)
	assert.Equal(t, "s1", verified.SignerID)
}

func TestAssembleWithoutHardBinding(t *testing.T) {
	_, signer := newTestSigner(t)

	text := textnorm.Normalize("streamed content")
	result, err := Assemble(text, signer, BuildOptions{AddHardBinding: false})
	require.NoError(t, err)

	_, ok := result.Manifest.HardBinding()
	assert.False(t, ok)
}

func TestVerifyRejectsUnknownSigner(t *testing.T) {
	_, signer := newTestSigner(t)

	text := textnorm.Normalize("hello")
	result, err := Assemble(text, signer, BuildOptions{AddHardBinding: true})
	require.NoError(t, err)

	resolver := signing.NewStaticResolver(nil)
	_, err = Verify(result.ManifestStore, text, resolver, VerifyOptions{RequireHardBinding: true})
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.UnknownSigner))
}

func TestVerifyRejectsHardBindingMismatch(t *testing.T) {
	pub, signer := newTestSigner(t)

	text := textnorm.Normalize("original text")
	result, err := Assemble(text, signer, BuildOptions{AddHardBinding: true})
	require.NoError(t, err)

	resolver := signing.NewStaticResolver(map[string]ed25519.PublicKey{"s1": pub})
	_, err = Verify(result.ManifestStore, textnorm.Normalize("tampered text"), resolver, VerifyOptions{RequireHardBinding: true})
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.HardBindingMismatch))
}

func TestEmptyTextRoundTrip(t *testing.T) {
	pub, signer := newTestSigner(t)

	result, err := Assemble("", signer, BuildOptions{AddHardBinding: true})
	require.NoError(t, err)

	resolver := signing.NewStaticResolver(map[string]ed25519.PublicKey{"s1": pub})
	verified, err := Verify(result.ManifestStore, "", resolver, VerifyOptions{RequireHardBinding: true})
	require.NoError(t, err)

	labels := map[string]bool{}
	for _, a := range verified.Manifest.Assertions {
		labels[a.Label] = true
	}
	assert.True(t, labels["c2pa.actions.v1"])
	assert.True(t, labels["c2pa.soft_binding.v1"])
	assert.True(t, labels["c2pa.hash.data.v1"])
}
