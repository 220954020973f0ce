// Package sitepolicy implements the legacy embedding site-selection
// policy: where, inside ordinary text, a run of variation selectors may
// be inserted. It is not used by the C2PA format, which always appends
// its wrapper as a suffix; legacy (basic/manifest) embeddings instead
// hide their payload at a policy-chosen position inside the text.
package sitepolicy

import (
	"unicode"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
	"github.com/encypherai/encypher-ai/pkg/selector"
)

// Target names a site-selection policy.
type Target string

const (
	TargetWhitespace        Target = "whitespace"
	TargetPunctuation       Target = "punctuation"
	TargetFirstLetterOfWord Target = "first_letter_of_word"
	TargetLastLetterOfWord  Target = "last_letter_of_word"
	TargetAllCharacters     Target = "all_characters"
	TargetEndOfText         Target = "end_of_text"
	TargetEndOfTextWithFEFF Target = "end_of_text_with_feff"
)

const sentinel = rune(0xFEFF)

// Sites returns the ordered rune-index positions in runes after which a
// selector run may be inserted for the given target. An empty result
// means the target has no viable site in this text.
func Sites(runes []rune, target Target) []int {
	switch target {
	case TargetWhitespace:
		return sitesWhere(runes, unicode.IsSpace)
	case TargetPunctuation:
		return sitesWhere(runes, unicode.IsPunct)
	case TargetAllCharacters:
		sites := make([]int, len(runes))
		for i := range runes {
			sites[i] = i + 1
		}
		return sites
	case TargetFirstLetterOfWord:
		return wordBoundarySites(runes, true)
	case TargetLastLetterOfWord:
		return wordBoundarySites(runes, false)
	case TargetEndOfText, TargetEndOfTextWithFEFF:
		return []int{len(runes)}
	default:
		return nil
	}
}

func sitesWhere(runes []rune, match func(rune) bool) []int {
	var sites []int
	for i, r := range runes {
		if match(r) {
			sites = append(sites, i+1)
		}
	}
	return sites
}

// wordBoundarySites returns the position after the first (or last, when
// first is false) letter of each maximal run of letters in runes.
func wordBoundarySites(runes []rune, first bool) []int {
	var sites []int
	inWord := false
	wordStart := 0
	flush := func(end int) {
		if first {
			sites = append(sites, wordStart+1)
		} else {
			sites = append(sites, end)
		}
	}
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if !inWord {
				inWord = true
				wordStart = i
			}
			continue
		}
		if inWord {
			flush(i)
			inWord = false
		}
	}
	if inWord {
		flush(len(runes))
	}
	return sites
}

// Insert places payload's selector-encoded bytes at the first viable
// site for target. For TargetEndOfTextWithFEFF it also inserts the
// U+FEFF sentinel immediately before the selector run.
func Insert(text string, target Target, payload []byte) (string, error) {
	runes := []rune(text)
	sites := Sites(runes, target)
	if len(sites) == 0 {
		return "", codecerr.New(codecerr.NoViableSite)
	}
	return insertAt(runes, sites[0], target, payload), nil
}

// InsertDistributed interleaves payload's bytes as selectors across all
// of target's matching sites, in text order, splitting them as evenly as
// possible and never more than fanout bytes per site. It requires
// ceil(len(payload)/fanout) available sites.
func InsertDistributed(text string, target Target, payload []byte, fanout int) (string, error) {
	if fanout < 1 {
		fanout = 1
	}
	runes := []rune(text)
	sites := Sites(runes, target)

	required := (len(payload) + fanout - 1) / fanout
	if required == 0 {
		required = 1
	}
	if len(sites) < required {
		return "", codecerr.New(codecerr.NoViableSite)
	}

	// Every site gets len(payload)/len(sites) bytes and the first
	// len(payload)%len(sites) sites one more; since len(sites) >= required,
	// no site gets more than fanout.
	base, extra := len(payload)/len(sites), len(payload)%len(sites)

	var out []rune
	cursor := 0
	prevEnd := 0
	for i, site := range sites {
		out = append(out, runes[prevEnd:site]...)

		chunkEnd := cursor + base
		if i < extra {
			chunkEnd++
		}
		chunk := payload[cursor:chunkEnd]
		cursor = chunkEnd

		if target == TargetEndOfTextWithFEFF && i == 0 {
			out = append(out, sentinel)
		}
		out = append(out, selector.EncodeBytes(chunk)...)

		prevEnd = site
	}
	out = append(out, runes[prevEnd:]...)

	return string(out), nil
}

func insertAt(runes []rune, site int, target Target, payload []byte) string {
	var out []rune
	out = append(out, runes[:site]...)
	if target == TargetEndOfTextWithFEFF {
		out = append(out, sentinel)
	}
	out = append(out, selector.EncodeBytes(payload)...)
	out = append(out, runes[site:]...)
	return string(out)
}
