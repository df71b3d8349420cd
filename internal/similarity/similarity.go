// Package similarity scores how alike two text spans are by taking the
// strongest of several independent signals.
package similarity

import (
	"context"
	"log/slog"
	"math"
	"strings"
)

// MaxSpanChars bounds each input before scoring. Only the lead text of each
// span is compared.
const MaxSpanChars = 300

// Embedder turns text into a dense vector.
type Embedder interface {
	Available() bool
	Encode(ctx context.Context, text string) ([]float64, error)
}

// Vectorizer fits a term weighting over exactly two spans and returns the
// cosine similarity of the weighted vectors.
type Vectorizer interface {
	Available() bool
	Cosine(a, b string) (float64, error)
}

// Signals records each signal computed for one comparison. Nil means the
// signal was skipped.
type Signals struct {
	Semantic *float64
	Lexical  *float64
	Overlap  *float64
}

// Max returns the largest computed signal, or 0 if none was computed.
func (s Signals) Max() float64 {
	best := 0.0
	for _, v := range []*float64{s.Semantic, s.Lexical, s.Overlap} {
		if v != nil && *v > best {
			best = *v
		}
	}
	return clamp01(best)
}

// Scorer combines the available signals. It holds no per-call state and is
// safe for concurrent use when its providers are.
type Scorer struct {
	embedder   Embedder
	vectorizer Vectorizer
	logger     *slog.Logger
}

// NewScorer builds a scorer. Either provider may be nil.
func NewScorer(embedder Embedder, vectorizer Vectorizer, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scorer{
		embedder:   embedder,
		vectorizer: vectorizer,
		logger:     logger.With("component", "similarity"),
	}
}

// Embedder exposes the semantic provider so forensic analysis can reuse it.
func (s *Scorer) Embedder() Embedder {
	return s.embedder
}

// Similarity returns a score in [0,1].
func (s *Scorer) Similarity(ctx context.Context, a, b string) float64 {
	return s.Breakdown(ctx, a, b).Max()
}

// Breakdown computes every available signal for the truncated spans.
func (s *Scorer) Breakdown(ctx context.Context, a, b string) Signals {
	a, b = truncate(a, MaxSpanChars), truncate(b, MaxSpanChars)
	var out Signals
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return out
	}

	if s.embedder != nil && s.embedder.Available() {
		if v, err := s.semantic(ctx, a, b); err != nil {
			s.logger.Debug("semantic signal skipped", "error", err)
		} else {
			out.Semantic = &v
		}
	}

	if s.vectorizer != nil && s.vectorizer.Available() {
		if v, err := s.vectorizer.Cosine(a, b); err != nil {
			s.logger.Debug("lexical signal skipped", "error", err)
		} else {
			v = clamp01(v)
			out.Lexical = &v
		}
	}

	if v, ok := Jaccard(a, b); ok {
		out.Overlap = &v
	}
	return out
}

func (s *Scorer) semantic(ctx context.Context, a, b string) (float64, error) {
	va, err := s.embedder.Encode(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.embedder.Encode(ctx, b)
	if err != nil {
		return 0, err
	}
	return clamp01(Cosine(va, vb)), nil
}

// Jaccard is |A∩B| / |A∪B| over lowercase whitespace word sets. ok is false
// when either set is empty.
func Jaccard(a, b string) (float64, bool) {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0, false
	}
	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union), true
}

// Cosine returns the cosine of two vectors, 0 for mismatched or zero vectors.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
