// Package detect runs one document through the whole pipeline: extraction,
// sectioning, source scans, ranking, forensics and report assembly.
package detect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"originality/internal/chunk"
	"originality/internal/forensics"
	"originality/internal/ingest"
	"originality/internal/report"
	"originality/internal/scan"
	"originality/internal/scoring"
	"originality/internal/structure"
)

// ErrNoContent means the document produced no text to analyze.
var ErrNoContent = errors.New("no content extracted")

// ExtractFunc turns a file path into plain text. An empty result means the
// document had nothing to analyze.
type ExtractFunc func(path string) string

type Detector struct {
	extract      ExtractFunc
	orchestrator *scan.Orchestrator
	analyzer     *forensics.Analyzer
	closers      []io.Closer
	now          func() time.Time
	logger       *slog.Logger
}

// New builds a detector from already constructed parts. A nil extract uses
// ingest.Extract.
func New(extract ExtractFunc, orchestrator *scan.Orchestrator, analyzer *forensics.Analyzer, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if extract == nil {
		extract = ingest.Extract
	}
	return &Detector{
		extract:      extract,
		orchestrator: orchestrator,
		analyzer:     analyzer,
		now:          time.Now,
		logger:       logger.With("component", "detect"),
	}
}

// Run analyzes the file at path. Only ErrNoContent and ctx cancellation end
// a run early; every other failure is recorded in the report diagnostics.
func (d *Detector) Run(ctx context.Context, path string) (*report.Report, error) {
	var diag report.Diagnostics
	start := d.now()

	var text string
	withSpan(&diag, "INGEST", func() error {
		text = d.extract(path)
		return nil
	})
	if strings.TrimSpace(text) == "" {
		d.logger.Error("no content extracted", "stage", "INGEST", "file", path)
		return nil, fmt.Errorf("%w: %s", ErrNoContent, path)
	}
	d.logger.Info("document loaded", "stage", "INGEST", "file", path, "chars", len(text))

	var segments []chunk.Segment
	withSpan(&diag, "STRUCTURE", func() error {
		sections := structure.Sectionize(text)
		segments = chunk.Segments(sections)
		d.logger.Info("document segmented", "stage", "STRUCTURE", "sections", len(sections), "segments", len(segments))
		return nil
	})

	var result scan.Result
	var scanErr error
	withSpan(&diag, "SCAN", func() error {
		if d.orchestrator == nil {
			result = scan.Result{ErrorCounts: map[scan.Source]int{}}
			return nil
		}
		result, scanErr = d.orchestrator.Run(ctx, scan.Document{Text: text, Segments: segments})
		return scanErr
	})
	if scanErr != nil {
		return nil, fmt.Errorf("scan %s: %w", path, scanErr)
	}

	var ranked []scan.Match
	withSpan(&diag, "RANK", func() error {
		ranked = scoring.Rank(result.Matches)
		return nil
	})

	var profile forensics.Profile
	withSpan(&diag, "FORENSICS", func() error {
		if d.analyzer == nil {
			profile = forensics.Profile{Heatmap: []forensics.HeatCell{}, Semantic: forensics.Semantic{Clusters: []forensics.Cluster{}}}
			return nil
		}
		snippets := make([]string, len(ranked))
		for i, m := range ranked {
			snippets[i] = m.Snippet
		}
		profile = d.analyzer.Analyze(ctx, forensics.Input{
			Path:     path,
			Text:     text,
			Segments: segments,
			Snippets: snippets,
		})
		return nil
	})

	diag.ScanErrors = make(map[string]int, len(result.ErrorCounts))
	for src, n := range result.ErrorCounts {
		diag.ScanErrors[string(src)] = n
	}
	diag.TimedOut = result.TimedOut
	for _, ce := range result.Errors {
		diag.Errors = append(diag.Errors, callErrorEntry(ce))
	}

	r := report.Assemble(report.Parts{
		File:        path,
		At:          start,
		Matches:     ranked,
		Profile:     profile,
		Segments:    segments,
		Diagnostics: diag,
	})

	d.logger.Info("detection complete",
		"stage", "REPORT",
		"file", path,
		"originality", r.OriginalityScore,
		"matches", r.MatchesFound,
		"tier", r.Verdict.Tier,
		"scan_errors", result.ErrorTotal(),
	)
	return r, nil
}

// Close releases the backends FromConfig opened.
func (d *Detector) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func withSpan(diag *report.Diagnostics, name string, fn func() error) {
	start := time.Now()
	status := report.StatusOK
	if err := fn(); err != nil {
		status = report.StatusError
		diag.Errors = append(diag.Errors, report.ErrorEntry{
			Stage:     name,
			Message:   err.Error(),
			Type:      classifyErr(err),
			Retryable: false,
		})
	}
	diag.Traces = append(diag.Traces, report.StageTrace{
		Name:       name,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     status,
	})
}

func callErrorEntry(ce scan.CallError) report.ErrorEntry {
	kind := classifyErr(ce.Err)
	return report.ErrorEntry{
		Stage:     "SCAN",
		Message:   ce.Error(),
		Type:      kind,
		Retryable: kind != "exception",
	}
}

func classifyErr(err error) string {
	if err == nil {
		return "exception"
	}
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, scan.ErrStatus):
		return "http_status"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "unavailable"):
		return "unavailable"
	default:
		return "exception"
	}
}
