// Package forensics derives stylometric and structural signals from a
// document: writing style, authorship consistency across segments, text
// fingerprints, semantic clusters and a similarity heatmap.
package forensics

import (
	"context"
	"log/slog"
	"time"

	"originality/internal/chunk"
	"originality/internal/similarity"
	"originality/internal/timeline"
)

type Config struct {
	FingerprintWindow int
	FingerprintStride int
	SuspiciousGap     time.Duration
	Workers           int
}

func DefaultConfig() Config {
	return Config{
		FingerprintWindow: DefaultFingerprintWindow,
		FingerprintStride: DefaultFingerprintWindow / 2,
		SuspiciousGap:     timeline.DefaultSuspiciousGap,
	}
}

type Input struct {
	Path     string
	Text     string
	Segments []chunk.Segment
	// Snippets of the ranked matches, used for the heatmap.
	Snippets []string
}

type Profile struct {
	Authorship   Authorship        `json:"authorship_analysis"`
	Timeline     timeline.Analysis `json:"timeline_analysis"`
	WritingStyle Style             `json:"writing_style"`
	Heatmap      []HeatCell        `json:"heatmap_data"`
	Fingerprints []Fingerprint     `json:"text_fingerprints"`
	Semantic     Semantic          `json:"semantic_analysis"`
}

type Analyzer struct {
	cfg       Config
	tokenizer Tokenizer
	scorer    *similarity.Scorer
	logger    *slog.Logger
}

// NewAnalyzer builds an analyzer. A nil scorer disables the heatmap and
// semantic clustering.
func NewAnalyzer(cfg Config, tokenizer Tokenizer, scorer *similarity.Scorer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{
		cfg:       cfg,
		tokenizer: tokenizer,
		scorer:    scorer,
		logger:    logger.With("component", "forensics"),
	}
}

func (a *Analyzer) Analyze(ctx context.Context, in Input) Profile {
	texts := make([]string, len(in.Segments))
	for i, seg := range in.Segments {
		texts[i] = seg.Text
	}

	if a.tokenizer == nil || !a.tokenizer.Available() {
		a.logger.Debug("tokenizer unavailable, style measures disabled")
	}

	profile := Profile{
		Authorship:   DetectAuthorship(a.tokenizer, texts),
		Timeline:     timeline.Analyze(in.Path, a.cfg.SuspiciousGap),
		WritingStyle: WritingStyle(a.tokenizer, in.Text),
		Fingerprints: Fingerprints(in.Text, a.cfg.FingerprintWindow, a.cfg.FingerprintStride),
		Semantic:     Semantic{Clusters: []Cluster{}},
		Heatmap:      []HeatCell{},
	}

	if a.scorer != nil {
		profile.Heatmap = Heatmap(ctx, a.scorer.Similarity, in.Text, in.Snippets)
		profile.Semantic = SemanticClusters(ctx, a.scorer.Embedder(), in.Segments, a.cfg.Workers)
	}

	a.logger.Info("forensic analysis complete",
		"stage", "FORENSICS",
		"anomaly", profile.Authorship.AnomalyDetected,
		"suspicious_timeline", profile.Timeline.Suspicious,
		"fingerprints", len(profile.Fingerprints),
		"clusters", len(profile.Semantic.Clusters),
	)
	return profile
}
