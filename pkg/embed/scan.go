package embed

import "github.com/encypherai/encypher-ai/pkg/selector"

const bomSentinel = rune(0xFEFF)

// scanSelectorPayload finds every maximal run of variation-selector runes
// in text, concatenates their decoded bytes in left-to-right order, and
// returns the text with those runs (and a lone BOM immediately preceding
// a run, left by the end-of-text-with-FEFF target) removed. This covers
// both single-site and fanned-out distributed legacy embeddings, which
// differ only in how many runs the payload is split across.
func scanSelectorPayload(text string) (payload []byte, clean string, found bool) {
	runes := []rune(text)
	var cleanRunes []rune

	i := 0
	for i < len(runes) {
		if !selector.IsSelector(runes[i]) {
			cleanRunes = append(cleanRunes, runes[i])
			i++
			continue
		}

		start := i
		for i < len(runes) && selector.IsSelector(runes[i]) {
			i++
		}
		run := runes[start:i]

		decoded := make([]byte, 0, len(run))
		for _, r := range run {
			b, _ := selector.FromSelector(r)
			decoded = append(decoded, b)
		}
		payload = append(payload, decoded...)
		found = true

		if len(cleanRunes) > 0 && cleanRunes[len(cleanRunes)-1] == bomSentinel {
			cleanRunes = cleanRunes[:len(cleanRunes)-1]
		}
	}

	return payload, string(cleanRunes), found
}
