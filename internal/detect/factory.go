package detect

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"originality/internal/config"
	"originality/internal/embedding"
	"originality/internal/forensics"
	"originality/internal/scan"
	"originality/internal/similarity"
)

// FromConfig wires the scorer, the scanners and the forensic analyzer from
// cfg. The embedding backend is optional; when it is disabled or fails its
// health check the scorer falls back to the lexical signals.
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Detector, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var closers []io.Closer
	var embedder similarity.Embedder
	if cfg.Embedding.Enabled {
		client, err := embedding.Dial(embedding.Config{
			Addr:    cfg.Embedding.Addr,
			Method:  cfg.Embedding.Method,
			Timeout: cfg.Embedding.Timeout(),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("embedding client: %w", err)
		}
		closers = append(closers, client)
		if client.Probe(ctx) {
			embedder = client
		} else {
			logger.Debug("embedding backend unavailable", "addr", cfg.Embedding.Addr)
		}
	}

	scorer := similarity.NewScorer(embedder, similarity.TFIDF{}, logger)
	scanners := Scanners(cfg, scorer, logger)
	orchestrator := scan.NewOrchestrator(scanners, cfg.Scan.Budget(), cfg.Scan.Concurrent, logger)

	analyzer := forensics.NewAnalyzer(forensics.Config{
		FingerprintWindow: cfg.Forensics.FingerprintWindow,
		FingerprintStride: cfg.Forensics.FingerprintStride,
		SuspiciousGap:     cfg.Forensics.SuspiciousGap(),
		Workers:           cfg.Forensics.Workers,
	}, forensics.RegexpTokenizer{}, scorer, logger)

	d := New(nil, orchestrator, analyzer, logger)
	d.closers = closers
	return d, nil
}

// Scanners builds the enabled source scanners in their fixed order:
// encyclopedic, web, research.
func Scanners(cfg *config.Config, scorer scan.Scorer, logger *slog.Logger) []scan.Scanner {
	callClient := scan.NewHTTPClient(cfg.HTTP.CallTimeout())
	pageClient := scan.NewHTTPClient(cfg.HTTP.PageTimeout())

	var scanners []scan.Scanner
	if cfg.Scan.Encyclopedic {
		wiki := scan.NewWikipedia(callClient, cfg.HTTP.UserAgent)
		if cfg.HTTP.WikipediaURL != "" {
			wiki.BaseURL = cfg.HTTP.WikipediaURL
		}
		enc := scan.NewEncyclopedic(wiki, scorer, logger)
		enc.Threshold = cfg.Scan.EncyclopedicThreshold
		if cfg.Scan.Keywords > 0 {
			enc.Keywords = cfg.Scan.Keywords
		}
		scanners = append(scanners, enc)
	}
	if cfg.Scan.Web {
		ddg := scan.NewDuckDuckGo(callClient)
		if cfg.HTTP.DuckDuckGoURL != "" {
			ddg.BaseURL = cfg.HTTP.DuckDuckGoURL
		}
		web := scan.NewWeb(ddg, scan.NewHTTPFetcher(pageClient), scorer, logger)
		web.Threshold = cfg.Scan.WebThreshold
		if cfg.Scan.WebMaxResults > 0 {
			web.MaxResults = cfg.Scan.WebMaxResults
		}
		scanners = append(scanners, web)
	}
	if cfg.Scan.Research {
		crossref := scan.NewCrossref(callClient, cfg.HTTP.UserAgent)
		if cfg.HTTP.CrossrefURL != "" {
			crossref.BaseURL = cfg.HTTP.CrossrefURL
		}
		s2 := scan.NewSemanticScholar(callClient, cfg.HTTP.UserAgent)
		if cfg.HTTP.SemanticScholarURL != "" {
			s2.BaseURL = cfg.HTTP.SemanticScholarURL
		}
		research := scan.NewResearch([]scan.BibliographyClient{crossref, s2}, scorer, logger)
		research.Threshold = cfg.Scan.ResearchThreshold
		if cfg.Scan.ResearchRows > 0 {
			research.Rows = cfg.Scan.ResearchRows
		}
		scanners = append(scanners, research)
	}
	return scanners
}
