package forensics

import (
	"math"
	"strings"
)

const complexWordLen = 6

// Style holds the stylometric measures of one span of text.
type Style struct {
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	VocabRichness     float64 `json:"vocab_richness"`
	ComplexWordsRatio float64 `json:"complex_words_ratio"`
}

// WritingStyle measures average tokens per sentence, type/token ratio and
// the share of alphabetic words longer than six letters.
func WritingStyle(tok Tokenizer, text string) Style {
	if tok == nil || !tok.Available() || strings.TrimSpace(text) == "" {
		return Style{}
	}

	words := tok.Words(strings.ToLower(text))
	if len(words) == 0 {
		return Style{}
	}

	var avg float64
	if sentences := tok.Sentences(text); len(sentences) > 0 {
		total := 0
		for _, s := range sentences {
			total += len(tok.Words(s))
		}
		avg = float64(total) / float64(len(sentences))
	}

	unique := make(map[string]struct{}, len(words))
	alpha, long := 0, 0
	for _, w := range words {
		unique[w] = struct{}{}
		if !isAlpha(w) {
			continue
		}
		alpha++
		if len([]rune(w)) > complexWordLen {
			long++
		}
	}

	style := Style{
		AvgSentenceLength: round(avg, 2),
		VocabRichness:     round(float64(len(unique))/float64(len(words)), 3),
	}
	if alpha > 0 {
		style.ComplexWordsRatio = float64(long) / float64(alpha)
	}
	return style
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
