package chunk

import (
	"regexp"
	"strings"

	"originality/internal/structure"
)

const (
	MinSegmentChars = 60
	MaxSegments     = 60
)

// Segment is the unit fed to source scanning. IDs increase across sections.
type Segment struct {
	ID      int    `json:"segment_id"`
	Section string `json:"section"`
	Text    string `json:"text"`
}

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// Segments turns sections into at most MaxSegments units. Assignment stops as
// soon as the cap is hit, even in the middle of a section.
func Segments(sections []structure.Section) []Segment {
	out := make([]Segment, 0, MaxSegments)
	for _, sec := range sections {
		units := sentenceUnits(sec.Text)
		if len(units) == 0 && len(strings.TrimSpace(sec.Text)) > MinSegmentChars {
			units = []string{strings.TrimSpace(sec.Text)}
		}
		for _, u := range units {
			out = append(out, Segment{ID: len(out), Section: sec.Name, Text: u})
			if len(out) >= MaxSegments {
				return out
			}
		}
	}
	return out
}

func sentenceUnits(text string) []string {
	var units []string
	start := 0
	for _, m := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// keep the punctuation with the sentence it closes
		units = appendUnit(units, text[start:m[0]+1])
		start = m[1]
	}
	return appendUnit(units, text[start:])
}

func appendUnit(units []string, u string) []string {
	u = strings.TrimSpace(u)
	if len(u) <= MinSegmentChars {
		return units
	}
	return append(units, u)
}

// Window is a span of whitespace tokens.
type Window struct {
	Index      int
	StartToken int
	EndToken   int
	Text       string
}

// Windows returns full windows of size tokens advancing by stride. A token
// list shorter than one window yields a single window over all of it.
func Windows(tokens []string, size, stride int) []Window {
	if len(tokens) == 0 || size <= 0 {
		return nil
	}
	if stride < 1 {
		stride = 1
	}
	if len(tokens) < size {
		return []Window{{Index: 0, StartToken: 0, EndToken: len(tokens), Text: strings.Join(tokens, " ")}}
	}

	windows := make([]Window, 0, (len(tokens)-size)/stride+1)
	for start := 0; start+size <= len(tokens); start += stride {
		windows = append(windows, Window{
			Index:      len(windows),
			StartToken: start,
			EndToken:   start + size,
			Text:       strings.Join(tokens[start:start+size], " "),
		})
	}
	return windows
}
