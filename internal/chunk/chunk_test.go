package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originality/internal/structure"
)

func TestSegmentsCapAndMinimumLength(t *testing.T) {
	sentence := "This sentence is comfortably longer than the sixty character minimum threshold. "
	sections := []structure.Section{
		{Name: "Introduction", Text: strings.Repeat(sentence, 40) + "Tiny one. "},
		{Name: "Results", Text: strings.Repeat(sentence, 40)},
		{Name: "Discussion", Text: strings.Repeat(sentence, 40)},
	}

	segs := Segments(sections)
	require.Len(t, segs, MaxSegments)
	for i, s := range segs {
		assert.Equal(t, i, s.ID)
		assert.Greater(t, len(s.Text), MinSegmentChars, "segment %d", i)
		assert.NotEqual(t, "Discussion", s.Section, "later sections are skipped once the cap is reached")
	}
	assert.Equal(t, "Introduction", segs[39].Section)
	assert.Equal(t, "Results", segs[40].Section)
}

func TestSegmentsWholeSectionFallback(t *testing.T) {
	text := "a list of short items; none of them ends a sentence; yet the section is long"
	segs := Segments([]structure.Section{{Name: "Front", Text: text}})
	require.Len(t, segs, 1)
	assert.Equal(t, text, segs[0].Text)
}

func TestSegmentsDropsShortSection(t *testing.T) {
	assert.Empty(t, Segments([]structure.Section{{Name: "Front", Text: "Too short."}}))
}

func TestWindowsFullWindowsOnly(t *testing.T) {
	tokens := make([]string, 120)
	for i := range tokens {
		tokens[i] = "word"
	}

	windows := Windows(tokens, 50, 25)
	require.Len(t, windows, 3)
	for _, w := range windows {
		assert.Equal(t, 50, w.EndToken-w.StartToken)
	}
	assert.Equal(t, 50, windows[2].StartToken)
}

func TestWindowsShortInput(t *testing.T) {
	windows := Windows(strings.Fields("only five words right here"), 50, 25)
	require.Len(t, windows, 1)
	assert.Equal(t, "only five words right here", windows[0].Text)
}

func TestWindowsMinimumStride(t *testing.T) {
	assert.Len(t, Windows(strings.Fields("a b c d"), 2, 0), 3, "stride clamps to 1")
}
