// Package report assembles the final detection report and checks it against
// the published JSON schema.
package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"originality/internal/chunk"
	"originality/internal/forensics"
	"originality/internal/scan"
	"originality/internal/scoring"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://originality.local/schema/report-v1.json"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StageReport names the trace Assemble records for itself.
const StageReport = "REPORT"

type StageTrace struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
	Status     string `json:"status"`
}

// ErrorEntry describes a non-fatal failure recorded during a run.
type ErrorEntry struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Retryable bool   `json:"retryable"`
}

type Diagnostics struct {
	ScanErrors map[string]int `json:"scan_errors"`
	TimedOut   []string       `json:"timed_out"`
	Errors     []ErrorEntry   `json:"errors"`
	Traces     []StageTrace   `json:"traces"`
}

type Report struct {
	ID               string            `json:"id"`
	File             string            `json:"file"`
	AnalysisTime     time.Time         `json:"analysis_time"`
	OriginalityScore float64           `json:"originality_score"`
	MatchesFound     int               `json:"matches_found"`
	Matches          []scan.Match      `json:"matches"`
	ForensicAnalysis forensics.Profile `json:"forensic_analysis"`
	Segments         []chunk.Segment   `json:"segments"`
	Verdict          scoring.Verdict   `json:"verdict"`
	Diagnostics      Diagnostics       `json:"diagnostics"`
}

// Parts are the inputs of Assemble. Matches must already be ranked.
type Parts struct {
	File        string
	At          time.Time
	Matches     []scan.Match
	Profile     forensics.Profile
	Segments    []chunk.Segment
	Diagnostics Diagnostics
}

// Assemble scores the ranked matches and builds the report. The report owns
// copies of every slice it holds, and its traces end with a REPORT stage
// covering the assembly itself.
func Assemble(p Parts) *Report {
	start := time.Now()
	matches := slices.Clone(p.Matches)
	if matches == nil {
		matches = []scan.Match{}
	}
	segments := slices.Clone(p.Segments)
	if segments == nil {
		segments = []chunk.Segment{}
	}
	at := p.At
	if at.IsZero() {
		at = time.Now()
	}

	r := &Report{
		ID:               uuid.NewString(),
		File:             p.File,
		AnalysisTime:     at,
		OriginalityScore: scoring.Originality(matches),
		MatchesFound:     len(matches),
		Matches:          matches,
		ForensicAnalysis: p.Profile,
		Segments:         segments,
		Verdict: scoring.Judge(matches, scoring.Flags{
			AuthorshipAnomaly:  p.Profile.Authorship.AnomalyDetected,
			TimelineSuspicious: p.Profile.Timeline.Suspicious,
		}),
		Diagnostics: cloneDiagnostics(p.Diagnostics),
	}
	r.Diagnostics.Traces = append(r.Diagnostics.Traces, StageTrace{
		Name:       StageReport,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     StatusOK,
	})
	return r
}

func cloneDiagnostics(d Diagnostics) Diagnostics {
	out := Diagnostics{
		ScanErrors: make(map[string]int, len(d.ScanErrors)),
		TimedOut:   slices.Clone(d.TimedOut),
		Errors:     slices.Clone(d.Errors),
		Traces:     slices.Clone(d.Traces),
	}
	for k, v := range d.ScanErrors {
		out.ScanErrors[k] = v
	}
	if out.TimedOut == nil {
		out.TimedOut = []string{}
	}
	if out.Errors == nil {
		out.Errors = []ErrorEntry{}
	}
	if out.Traces == nil {
		out.Traces = []StageTrace{}
	}
	return out
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// Validate checks the JSON form of r against the report schema.
func Validate(r *Report) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("unmarshal report: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("report schema: %w", err)
	}
	return nil
}
