// Package scan queries external sources for passages similar to a document.
// Each scanner works under an advisory time budget: the budget is checked
// before every new external call and never interrupts one in flight.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"originality/internal/chunk"
)

type Source string

const (
	SourceWikipedia       Source = "Wikipedia"
	SourceWebsite         Source = "Website"
	SourceCrossRef        Source = "CrossRef"
	SourceSemanticScholar Source = "SemanticScholar"
)

const (
	DefaultBudget = 45 * time.Second

	maxKeyLen = 200
)

// Match is one external passage found similar to the document. Empty Title,
// URL and DOI mean the source did not provide them.
type Match struct {
	Source     Source  `json:"source"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	DOI        string  `json:"doi"`
	Similarity float64 `json:"similarity"`
	Snippet    string  `json:"snippet"`
}

// Key identifies a match for deduplication: the first non-empty of URL, DOI,
// title and snippet, cut to 200 characters.
func (m Match) Key() string {
	key := m.Snippet
	for _, v := range []string{m.URL, m.DOI, m.Title} {
		if v != "" {
			key = v
			break
		}
	}
	return head(key, maxKeyLen)
}

type Document struct {
	Text     string
	Segments []chunk.Segment
}

// Outcome is what a single scanner produced. Errors holds the calls that
// failed and were skipped.
type Outcome struct {
	Matches  []Match
	Errors   []CallError
	TimedOut bool
}

// CallError records one failed external call.
type CallError struct {
	Source Source
	Op     string
	Err    error
}

func (e CallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e CallError) Unwrap() error { return e.Err }

type Scanner interface {
	Name() string
	Scan(ctx context.Context, doc Document, budget time.Duration) Outcome
}

// Scorer rates the similarity of two spans in [0,1].
type Scorer interface {
	Similarity(ctx context.Context, a, b string) float64
}

// run tracks one scan's budget and collects its outcome.
type run struct {
	ctx      context.Context
	now      func() time.Time
	deadline time.Time
	logger   *slog.Logger
	out      Outcome
}

func newRun(ctx context.Context, clock func() time.Time, budget time.Duration, logger *slog.Logger) *run {
	if clock == nil {
		clock = time.Now
	}
	return &run{ctx: ctx, now: clock, deadline: clock().Add(budget), logger: logger}
}

// proceed reports whether another external call may be issued.
func (r *run) proceed() bool {
	if r.ctx.Err() != nil {
		return false
	}
	if !r.now().Before(r.deadline) {
		if !r.out.TimedOut {
			r.out.TimedOut = true
			r.logger.Info("scan budget exhausted", "matches", len(r.out.Matches))
		}
		return false
	}
	return true
}

func (r *run) fail(source Source, op string, err error) {
	if r.ctx.Err() != nil {
		return
	}
	ce := CallError{Source: source, Op: op, Err: err}
	r.out.Errors = append(r.out.Errors, ce)
	r.logger.Warn("external call failed", "source", string(source), "op", op, "error", err)
}

func (r *run) emit(m Match) {
	r.out.Matches = append(r.out.Matches, m)
	r.logger.Debug("match", "source", string(m.Source), "title", m.Title, "similarity", m.Similarity)
}

func componentLogger(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return logger.With("component", "scan", "scanner", name)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// head returns the first n runes of s.
func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func snippet(s string, n int) string {
	return head(s, n) + "..."
}
