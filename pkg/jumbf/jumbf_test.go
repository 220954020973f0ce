package jumbf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	content := []byte("cose-sign1-bytes")
	box := Wrap(content)

	got, err := Unwrap(box)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestWrapEmptyContent(t *testing.T) {
	box := Wrap(nil)
	got, err := Unwrap(box)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnwrapRejectsTruncated(t *testing.T) {
	_, err := Unwrap([]byte{0x00, 0x01})
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.MalformedEnvelope))
}

func TestUnwrapRejectsBadLength(t *testing.T) {
	box := Wrap([]byte("content"))
	box[3] ^= 0xFF // corrupt the length field
	_, err := Unwrap(box)
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.MalformedEnvelope))
}

func TestUnwrapRejectsWrongBoxType(t *testing.T) {
	box := Wrap([]byte("content"))
	box[4] = 'x'
	_, err := Unwrap(box)
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.MalformedEnvelope))
}
