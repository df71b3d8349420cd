package forensics

import (
	"regexp"
	"strings"
	"unicode"
)

// Tokenizer splits prose into sentences and word tokens. Word tokens include
// punctuation marks as separate tokens.
type Tokenizer interface {
	Available() bool
	Sentences(text string) []string
	Words(text string) []string
}

var sentenceEnd = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:'[\p{L}]+)?|[^\s\p{L}\p{N}]`)

// RegexpTokenizer is the in-process tokenizer.
type RegexpTokenizer struct{}

func (RegexpTokenizer) Available() bool { return true }

func (RegexpTokenizer) Sentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start:loc[1]]); s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func (RegexpTokenizer) Words(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
