package similarity

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	available bool
	vectors   map[string][]float64
	err       error
}

func (s stubEmbedder) Available() bool { return s.available }

func (s stubEmbedder) Encode(_ context.Context, text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0, 1}, nil
}

type failingVectorizer struct{}

func (failingVectorizer) Available() bool { return true }
func (failingVectorizer) Cosine(string, string) (float64, error) { return 0, errors.New("boom") }

func TestSimilarityIdenticalIsOne(t *testing.T) {
	s := NewScorer(nil, TFIDF{}, nil)
	text := "The mitochondria is the powerhouse of the cell."
	assert.Equal(t, 1.0, s.Similarity(context.Background(), text, text))
}

func TestSimilarityEmptyIsZero(t *testing.T) {
	s := NewScorer(stubEmbedder{available: true}, TFIDF{}, nil)
	assert.Equal(t, 0.0, s.Similarity(context.Background(), "", ""))
	assert.Equal(t, 0.0, s.Similarity(context.Background(), "words here", "  "))
}

func TestJaccardSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"the quick brown fox", "the lazy dog and the fox"},
		{"Alpha beta", "beta GAMMA alpha delta"},
		{"one", "two"},
	}
	for _, p := range pairs {
		ab, _ := Jaccard(p[0], p[1])
		ba, _ := Jaccard(p[1], p[0])
		assert.InDelta(t, ab, ba, 1e-12)

		s := NewScorer(nil, nil, nil)
		assert.InDelta(t, s.Similarity(context.Background(), p[0], p[1]), s.Similarity(context.Background(), p[1], p[0]), 1e-12)
	}
}

func TestJaccardValue(t *testing.T) {
	v, ok := Jaccard("a b c", "b c d")
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-12)
}

func TestSimilarityTakesMaximumSignal(t *testing.T) {
	emb := stubEmbedder{available: true, vectors: map[string][]float64{
		"cats purr softly":    {1, 0, 0},
		"felines hum quietly": {1, 0, 0},
	}}
	s := NewScorer(emb, TFIDF{}, nil)
	sig := s.Breakdown(context.Background(), "cats purr softly", "felines hum quietly")
	require.NotNil(t, sig.Semantic)
	require.NotNil(t, sig.Overlap)
	assert.Equal(t, 0.0, *sig.Overlap)
	assert.InDelta(t, 1.0, sig.Max(), 1e-9)
}

func TestSimilaritySkipsFailingBackends(t *testing.T) {
	s := NewScorer(stubEmbedder{available: true, err: errors.New("down")}, failingVectorizer{}, nil)
	sig := s.Breakdown(context.Background(), "a b c", "b c d")
	assert.Nil(t, sig.Semantic)
	assert.Nil(t, sig.Lexical)
	require.NotNil(t, sig.Overlap)
	assert.InDelta(t, 0.5, s.Similarity(context.Background(), "a b c", "b c d"), 1e-12)
}

func TestSimilarityIgnoresUnavailableEmbedder(t *testing.T) {
	s := NewScorer(stubEmbedder{available: false, err: errors.New("must not be called")}, nil, nil)
	sig := s.Breakdown(context.Background(), "x y", "x y")
	assert.Nil(t, sig.Semantic)
}

func TestSimilarityTruncatesToLeadText(t *testing.T) {
	lead := strings.Repeat("shared ", 50)
	a := lead + strings.Repeat("alpha ", 100)
	b := lead + strings.Repeat("omega ", 100)
	s := NewScorer(nil, nil, nil)
	assert.Equal(t, 1.0, s.Similarity(context.Background(), a, b))
}

func TestTFIDFCosine(t *testing.T) {
	v, err := TFIDF{}.Cosine("solar panels convert light", "solar panels convert light")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9)

	v, err = TFIDF{}.Cosine("solar panels", "wind turbines")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = TFIDF{}.Cosine("a", "b")
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestCosineDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float64{1, 2}, []float64{1}))
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.False(t, math.IsNaN(Cosine([]float64{1, 1}, []float64{1, 1})))
}
