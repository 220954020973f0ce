package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAllBytes(t *testing.T) {
	for b := 0; b <= 255; b++ {
		r := ToSelector(byte(b))
		got, ok := FromSelector(r)
		require.True(t, ok, "byte %d did not round-trip", b)
		assert.Equal(t, byte(b), got)
	}
}

func TestRangesAreDisjointFromOrdinaryText(t *testing.T) {
	assert.False(t, IsSelector('a'))
	assert.False(t, IsSelector(' '))
	assert.False(t, IsSelector(rune(0xFEFF)))
}

func TestLowHighBoundary(t *testing.T) {
	assert.Equal(t, rune(0xFE0F), ToSelector(15))
	assert.Equal(t, rune(0xE0100), ToSelector(16))
	assert.Equal(t, rune(0xE01EF), ToSelector(255))
}

func TestReadSelectorRun(t *testing.T) {
	data := []byte{1, 2, 3, 255, 0}
	var text string
	for _, r := range EncodeBytes(data) {
		text += string(r)
	}
	text += "not a selector"

	run := ReadSelectorRun(text, 0)
	assert.Equal(t, data, run.Bytes)
	assert.Equal(t, len(text)-len("not a selector"), run.RuneEnd)
}

func TestReadSelectorRunEmpty(t *testing.T) {
	run := ReadSelectorRun("hello", 0)
	assert.Empty(t, run.Bytes)
	assert.Equal(t, 0, run.RuneEnd)
}

func TestReadSelectorRunFromMiddle(t *testing.T) {
	prefix := "x"
	data := []byte{10, 20}
	text := prefix
	for _, r := range EncodeBytes(data) {
		text += string(r)
	}
	run := ReadSelectorRun(text, len(prefix))
	assert.Equal(t, data, run.Bytes)
}
