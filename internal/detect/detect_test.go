package detect

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originality/internal/config"
	"originality/internal/forensics"
	"originality/internal/report"
	"originality/internal/scan"
	"originality/internal/scoring"
	"originality/internal/timeline"
)

type fakeScanner struct {
	name string
	out  scan.Outcome
}

func (f fakeScanner) Name() string { return f.name }

func (f fakeScanner) Scan(context.Context, scan.Document, time.Duration) scan.Outcome {
	return f.out
}

func staticText(text string) ExtractFunc {
	return func(string) string { return text }
}

const essay = `Introduction

Photosynthesis converts sunlight into chemical energy that plants store as sugar for later growth.

Methods

Leaves were sampled every morning and the chlorophyll content was measured with a handheld meter.`

func TestRunWithoutMatches(t *testing.T) {
	orch := scan.NewOrchestrator([]scan.Scanner{fakeScanner{name: "empty"}}, time.Second, false, nil)
	d := New(staticText("A single short sentence about nothing."), orch, nil, nil)

	r, err := d.Run(context.Background(), "note.txt")
	require.NoError(t, err)
	assert.Equal(t, 100.0, r.OriginalityScore)
	assert.Empty(t, r.Matches)
	assert.NotNil(t, r.Matches)
	assert.Equal(t, 0, r.MatchesFound)
	assert.Equal(t, scoring.TierOriginal, r.Verdict.Tier)
	require.NoError(t, report.Validate(r))
}

func TestRunRanksAndRecordsDiagnostics(t *testing.T) {
	failure := scan.CallError{Source: scan.SourceCrossRef, Op: "search", Err: scan.ErrStatus}
	scanners := []scan.Scanner{
		fakeScanner{name: "encyclopedic", out: scan.Outcome{Matches: []scan.Match{
			{Source: scan.SourceWikipedia, Title: "Photosynthesis", URL: "https://en.wikipedia.org/wiki/Photosynthesis", Similarity: 0.6, Snippet: "sunlight"},
		}}},
		fakeScanner{name: "web", out: scan.Outcome{TimedOut: true, Matches: []scan.Match{
			{Source: scan.SourceWebsite, Title: "Photosynthesis again", URL: "https://en.wikipedia.org/wiki/Photosynthesis", Similarity: 0.9},
			{Source: scan.SourceWebsite, Title: "Blog", URL: "https://blog.example/leaves", Similarity: 0.3},
		}}},
		fakeScanner{name: "research", out: scan.Outcome{Errors: []scan.CallError{failure}}},
	}
	orch := scan.NewOrchestrator(scanners, time.Second, true, nil)
	analyzer := forensics.NewAnalyzer(forensics.DefaultConfig(), forensics.RegexpTokenizer{}, nil, nil)
	d := New(staticText(essay), orch, analyzer, nil)

	r, err := d.Run(context.Background(), "missing-on-disk.txt")
	require.NoError(t, err)

	require.Len(t, r.Matches, 2)
	assert.Equal(t, 0.6, r.Matches[0].Similarity, "first-seen duplicate wins")
	assert.Equal(t, 0.3, r.Matches[1].Similarity)
	assert.Equal(t, 55.0, r.OriginalityScore)
	assert.Equal(t, scoring.TierModerate, r.Verdict.Tier)

	assert.Equal(t, map[string]int{"CrossRef": 1}, r.Diagnostics.ScanErrors)
	assert.Equal(t, []string{"web"}, r.Diagnostics.TimedOut)
	require.Len(t, r.Diagnostics.Errors, 1)
	assert.Equal(t, "SCAN", r.Diagnostics.Errors[0].Stage)
	assert.Equal(t, "http_status", r.Diagnostics.Errors[0].Type)

	var stages []string
	for _, tr := range r.Diagnostics.Traces {
		stages = append(stages, tr.Name)
		assert.Equal(t, report.StatusOK, tr.Status)
	}
	assert.Equal(t, []string{"INGEST", "STRUCTURE", "SCAN", "RANK", "FORENSICS", "REPORT"}, stages)

	assert.NotEmpty(t, r.Segments)
	assert.Equal(t, timeline.Unknown, r.ForensicAnalysis.Timeline.Created)
	require.NoError(t, report.Validate(r))
}

func TestRunNoContent(t *testing.T) {
	d := New(staticText("  \n\t "), nil, nil, nil)
	_, err := d.Run(context.Background(), "blank.txt")
	require.ErrorIs(t, err, ErrNoContent)
	assert.Contains(t, err.Error(), "blank.txt")

	broken := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("not a pdf"), 0o644))
	d = New(nil, nil, nil, nil)
	_, err = d.Run(context.Background(), broken)
	require.ErrorIs(t, err, ErrNoContent)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	orch := scan.NewOrchestrator([]scan.Scanner{fakeScanner{name: "x"}}, time.Second, false, nil)
	d := New(staticText(essay), orch, nil, nil)

	_, err := d.Run(ctx, "essay.txt")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFromConfigOffline(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scan.Encyclopedic = false
	cfg.Scan.Web = false
	cfg.Scan.Research = false

	d, err := FromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	path := filepath.Join(t.TempDir(), "essay.md")
	require.NoError(t, os.WriteFile(path, []byte(essay), 0o644))

	r, err := d.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 100.0, r.OriginalityScore)
	assert.Equal(t, path, r.File)
	assert.NotEmpty(t, r.Segments)
	assert.NotEmpty(t, r.ForensicAnalysis.Timeline.Interpretation)
	require.NoError(t, report.Validate(r))
}

func TestScannersOrderAndToggles(t *testing.T) {
	cfg := config.DefaultConfig()
	names := func(ss []scan.Scanner) []string {
		var out []string
		for _, s := range ss {
			out = append(out, s.Name())
		}
		return out
	}
	assert.Equal(t, []string{"encyclopedic", "web", "research"}, names(Scanners(cfg, nil, nil)))

	cfg.Scan.Web = false
	assert.Equal(t, []string{"encyclopedic", "research"}, names(Scanners(cfg, nil, nil)))
}

func TestClassifyErr(t *testing.T) {
	cases := map[string]error{
		"timeout":     context.DeadlineExceeded,
		"http_status": scan.ErrStatus,
		"unavailable": errors.New("dial tcp: connection refused"),
		"exception":   errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, classifyErr(err), err.Error())
	}
}
