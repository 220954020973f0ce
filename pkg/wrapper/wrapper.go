// Package wrapper packs and unpacks the C2PATextManifestWrapper: the
// U+FEFF-prefixed run of variation selectors appended to embedded text,
// carrying a magic-tagged header plus a JUMBF-framed manifest store.
package wrapper

import (
	"encoding/binary"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/selector"
)

const (
	// sentinel is the zero-width no-break space that precedes every
	// wrapper's selector run.
	sentinel = rune(0xFEFF)

	// Version is the only currently defined wrapper format version.
	Version byte = 1

	// HeaderSize is len(Magic) + 1 version byte + 4 length bytes.
	HeaderSize = 13

	maxManifestLen = 1<<32 - 1
)

// Magic is the fixed 8-byte tag identifying a C2PA text manifest wrapper.
var Magic = [8]byte{'C', '2', 'P', 'A', 'T', 'X', 'T', 0x00}

// Span is the code-point range [Start, End) of a wrapper within a text,
// including its leading sentinel.
type Span struct {
	Start int
	End   int
}

// Encode builds the full wrapper text (sentinel + header + manifest bytes,
// each byte mapped to a variation selector) for the given manifest store
// bytes. It rejects manifests whose length would overflow the 4-byte
// big-endian length field.
func Encode(manifestStore []byte) (string, error) {
	if len(manifestStore) > maxManifestLen {
		return "", codecerr.New(codecerr.InvalidInput)
	}

	header := make([]byte, 0, HeaderSize)
	header = append(header, Magic[:]...)
	header = append(header, Version)
	lenBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBytes, uint32(len(manifestStore)))
	header = append(header, lenBytes...)

	payload := make([]byte, 0, HeaderSize+len(manifestStore))
	payload = append(payload, header...)
	payload = append(payload, manifestStore...)

	runes := make([]rune, 0, len(payload)+1)
	runes = append(runes, sentinel)
	runes = append(runes, selector.EncodeBytes(payload)...)
	return string(runes), nil
}

// Find scans text for the wrapper(s) it contains. It returns the decoded
// manifest store bytes, the text with the wrapper removed, and the
// wrapper's code-point span. If no wrapper is present, manifestStore is
// nil, cleanText is text unchanged, span is zero and err is nil. If more
// than one distinct sentinel prefixes a
// fully decodable wrapper, it returns codecerr.MultipleWrappers.
func Find(text string) (manifestStore []byte, cleanText string, span Span, err error) {
	runes := []rune(text)

	type candidate struct {
		start, end int
		bytes      []byte
	}
	var found []candidate

	i := 0
	for i < len(runes) {
		if runes[i] != sentinel {
			i++
			continue
		}

		start := i
		run := readRunAsRunes(runes, i+1)
		if len(run) < HeaderSize || !matchesMagic(run) {
			// Not enough selectors yet, or a sentinel unrelated to our
			// wrapper format (e.g. a stray byte-order-mark in prose).
			i++
			continue
		}
		if run[8] != Version {
			return nil, "", Span{}, codecerr.New(codecerr.CorruptedWrapper)
		}
		length := int(binary.BigEndian.Uint32(run[9:13]))
		if len(run) != HeaderSize+length {
			return nil, "", Span{}, codecerr.New(codecerr.CorruptedWrapper)
		}

		end := start + 1 + len(run)
		found = append(found, candidate{
			start: start,
			end:   end,
			bytes: append([]byte(nil), run[HeaderSize:HeaderSize+length]...),
		})
		i = end
	}

	if len(found) == 0 {
		return nil, text, Span{}, nil
	}
	if len(found) > 1 {
		return nil, "", Span{}, codecerr.New(codecerr.MultipleWrappers)
	}

	c := found[0]
	clean := string(runes[:c.start]) + string(runes[c.end:])
	return c.bytes, clean, Span{Start: c.start, End: c.end}, nil
}

// readRunAsRunes decodes the contiguous run of variation-selector runes
// starting at idx into their byte values, stopping at the first
// non-selector rune or end of input.
func readRunAsRunes(runes []rune, idx int) []byte {
	var out []byte
	for idx < len(runes) {
		b, ok := selector.FromSelector(runes[idx])
		if !ok {
			break
		}
		out = append(out, b)
		idx++
	}
	return out
}

func matchesMagic(headerBytes []byte) bool {
	for i, m := range Magic {
		if headerBytes[i] != m {
			return false
		}
	}
	return true
}
