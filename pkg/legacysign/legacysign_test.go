package legacysign

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/manifest"
	"github.com/encypherai/encypher-ai/pkg/signing"
)

func newTestSigner(t *testing.T) (ed25519.PublicKey, signing.Signer) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := signing.NewSoftwareSigner(priv, "s1")
	require.NoError(t, err)
	return pub, signer
}

func TestSignVerifyRoundTrip(t *testing.T) {
	pub, signer := newTestSigner(t)

	env, err := Sign([]byte("payload"), signer, manifest.FormatBasic)
	require.NoError(t, err)
	assert.Equal(t, "s1", env.SignerID)
	assert.Equal(t, manifest.FormatBasic, env.FormatTag)

	require.NoError(t, Verify(env, pub))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	pub, signer := newTestSigner(t)

	env, err := Sign([]byte("payload"), signer, manifest.FormatManifestJSON)
	require.NoError(t, err)

	env.PayloadBytes = []byte("tampered")
	err = Verify(env, pub)
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.BadSignature))
}

func TestVerifyRejectsWrongFormatTag(t *testing.T) {
	// The format tag is part of the signed input, so a caller flipping
	// it post hoc (json vs cbor mode) must invalidate the signature.
	pub, signer := newTestSigner(t)

	env, err := Sign([]byte("payload"), signer, manifest.FormatManifestJSON)
	require.NoError(t, err)

	env.FormatTag = manifest.FormatManifestCBOR
	err = Verify(env, pub)
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.BadSignature))
}

func TestVerifyRejectsBadPublicKeySize(t *testing.T) {
	_, signer := newTestSigner(t)
	env, err := Sign([]byte("payload"), signer, manifest.FormatBasic)
	require.NoError(t, err)

	err = Verify(env, ed25519.PublicKey{0x01})
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.InvalidPublicKey))
}
