package textflow

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Characters that may wrap the start of a sentence-final token, stripped
// before the token is classified: brackets and opening quotes.
const leadingTokenClutter = "([{\"'«„"

// abbreviationShape matches dotted single letter runs like "z.B", "d.h"
// or "U.S.A", with or without a trailing dot.
var abbreviationShape = regexp.MustCompile(`^[a-zA-Z](\.[a-zA-Z])*\.?$`)

// tagOpenShape matches an XML-like opening tag at the start of a token.
var tagOpenShape = regexp.MustCompile(`^<([A-Za-z][A-Za-z0-9_]*)>`)

// SentenceSegmenter splits assembled paragraph text into sentences at
// terminal punctuation, skipping numbers, dotted letter runs and a
// configurable abbreviation set.
type SentenceSegmenter struct {
	abbreviations map[string]struct{}
}

// NewSentenceSegmenter returns a segmenter using the given abbreviations.
// Abbreviations are matched case-sensitively against tokens with their
// terminal mark removed, so "Fig" suppresses the boundary after "Fig.".
func NewSentenceSegmenter(abbreviations []string) *SentenceSegmenter {
	set := make(map[string]struct{}, len(abbreviations))
	for _, abbr := range abbreviations {
		set[abbr] = struct{}{}
	}
	return &SentenceSegmenter{abbreviations: set}
}

// token is a non-space run of text with its byte offsets in the source.
type token struct {
	text       string
	start, end int
}

// tokenize splits text on whitespace, keeping byte offsets. A token
// opening an XML-like tag extends to the matching closing tag, so tagged
// spans survive as single tokens even when they contain spaces.
func tokenize(text string) []token {
	var tokens []token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		start := i
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}
		word := text[start:i]

		if m := tagOpenShape.FindStringSubmatch(word); m != nil {
			closing := "</" + m[1] + ">"
			if !strings.Contains(word, closing) {
				if idx := strings.Index(text[i:], closing); idx >= 0 {
					i += idx + len(closing)
					word = text[start:i]
				}
			}
		}

		tokens = append(tokens, token{text: word, start: start, end: i})
	}
	return tokens
}

// Split cuts text into sentences. A token ending in ".", "!" or "?"
// closes a sentence unless the token, with leading brackets or quotes
// and the terminal mark removed, is purely numeric, a dotted letter run,
// or a known abbreviation. The tail after the last boundary forms the
// final sentence; all sentences are trimmed and empty ones dropped.
func (s *SentenceSegmenter) Split(text string) []string {
	var sentences []string
	start := 0

	for _, tok := range tokenize(text) {
		last, _ := utf8.DecodeLastRuneInString(tok.text)
		if last != '.' && last != '!' && last != '?' {
			continue
		}

		core := strings.TrimLeft(tok.text, leadingTokenClutter)
		core = core[:len(core)-1]

		if isDigits(core) || abbreviationShape.MatchString(core) {
			continue
		}
		if _, ok := s.abbreviations[core]; ok {
			continue
		}

		sentences = append(sentences, text[start:tok.end])
		start = tok.end
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	out := sentences[:0]
	for _, sentence := range sentences {
		if trimmed := strings.TrimSpace(sentence); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// isDigits reports whether s is non-empty and consists of digits only.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
