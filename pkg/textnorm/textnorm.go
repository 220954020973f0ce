// Package textnorm normalizes text to NFC and computes exclusion-aware
// SHA-256 digests over its UTF-8 byte representation.
package textnorm

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
)

// Exclusion is a byte range {start, length} over the NFC-normalized UTF-8
// byte sequence, excluded from the hash computation.
type Exclusion struct {
	Start  int
	Length int
}

// Normalize returns the NFC normal form of text.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Digest is the result of hashing normalized text with exclusions applied.
type Digest struct {
	Normalized string
	Bytes      []byte // filtered bytes actually hashed
	Hex        string // lowercase hex SHA-256 of Bytes
}

// Hash normalizes text, encodes it to UTF-8, removes the union of the
// given exclusion ranges, and returns the SHA-256 digest of what remains.
// Exclusions must be non-overlapping, in bounds, and sorted ascending by
// Start; violating any of those yields codecerr.InvalidExclusion.
func Hash(text string, exclusions []Exclusion) (Digest, error) {
	normalized := Normalize(text)
	raw := []byte(normalized)

	if err := validateExclusions(exclusions, len(raw)); err != nil {
		return Digest{}, err
	}

	filtered := applyExclusions(raw, exclusions)

	sum := sha256.Sum256(filtered)
	return Digest{
		Normalized: normalized,
		Bytes:      filtered,
		Hex:        hex.EncodeToString(sum[:]),
	}, nil
}

func validateExclusions(exclusions []Exclusion, totalLen int) error {
	if !sort.SliceIsSorted(exclusions, func(i, j int) bool {
		return exclusions[i].Start < exclusions[j].Start
	}) {
		return codecerr.New(codecerr.InvalidExclusion)
	}

	prevEnd := -1
	for _, ex := range exclusions {
		if ex.Start < 0 || ex.Length < 0 || ex.Start+ex.Length > totalLen {
			return codecerr.New(codecerr.InvalidExclusion)
		}
		if ex.Start < prevEnd {
			return codecerr.New(codecerr.InvalidExclusion)
		}
		prevEnd = ex.Start + ex.Length
	}
	return nil
}

// applyExclusions returns raw with every exclusion range removed,
// preserving the relative order of the remaining bytes. Callers must
// validate exclusions first.
func applyExclusions(raw []byte, exclusions []Exclusion) []byte {
	if len(exclusions) == 0 {
		return raw
	}

	out := make([]byte, 0, len(raw))
	cursor := 0
	for _, ex := range exclusions {
		out = append(out, raw[cursor:ex.Start]...)
		cursor = ex.Start + ex.Length
	}
	out = append(out, raw[cursor:]...)
	return out
}
