package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
)

func TestHashNoExclusions(t *testing.T) {
	d, err := Hash("Hello, world.", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world.", d.Normalized)
	assert.Len(t, d.Hex, 64)
}

func TestHashDeterministic(t *testing.T) {
	d1, err := Hash("same input", nil)
	require.NoError(t, err)
	d2, err := Hash("same input", nil)
	require.NoError(t, err)
	assert.Equal(t, d1.Hex, d2.Hex)
}

func TestHashWithExclusion(t *testing.T) {
	text := "abcdef"
	withExclusion, err := Hash(text, []Exclusion{{Start: 3, Length: 3}})
	require.NoError(t, err)
	without, err := Hash("abc", nil)
	require.NoError(t, err)
	assert.Equal(t, without.Hex, withExclusion.Hex)
}

func TestHashRejectsOverlap(t *testing.T) {
	_, err := Hash("abcdef", []Exclusion{{Start: 0, Length: 3}, {Start: 2, Length: 2}})
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.InvalidExclusion))
}

func TestHashRejectsOutOfBounds(t *testing.T) {
	_, err := Hash("abc", []Exclusion{{Start: 0, Length: 10}})
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.InvalidExclusion))
}

func TestHashRejectsUnsorted(t *testing.T) {
	_, err := Hash("abcdef", []Exclusion{{Start: 4, Length: 1}, {Start: 0, Length: 1}})
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.InvalidExclusion))
}

func TestNormalizeNFC(t *testing.T) {
	// U+0065 U+0301 (e + combining acute accent) must normalize to U+00E9.
	decomposed := "é"
	precomposed := "é"
	assert.Equal(t, precomposed, Normalize(decomposed))
}
