package similarity

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

// ErrEmptyVocabulary is returned when neither span contains a usable term.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

var termPattern = regexp.MustCompile(`\b\w\w+\b`)

// TFIDF weights terms with smoothed inverse document frequency fitted over
// the two spans being compared. Nothing is retained between calls.
type TFIDF struct{}

func (TFIDF) Available() bool { return true }

func (TFIDF) Cosine(a, b string) (float64, error) {
	docs := [2][]string{terms(a), terms(b)}
	if len(docs[0]) == 0 && len(docs[1]) == 0 {
		return 0, ErrEmptyVocabulary
	}

	df := map[string]int{}
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, t := range doc {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}

	vectors := [2][]float64{}
	for i, doc := range docs {
		tf := map[string]int{}
		for _, t := range doc {
			tf[t]++
		}
		vec := make([]float64, len(vocab))
		for j, t := range vocab {
			idf := math.Log(3.0/float64(1+df[t])) + 1
			vec[j] = float64(tf[t]) * idf
		}
		vectors[i] = vec
	}
	return Cosine(vectors[0], vectors[1]), nil
}

func terms(s string) []string {
	return termPattern.FindAllString(strings.ToLower(s), -1)
}
