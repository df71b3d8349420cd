package config

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			BudgetSeconds:         45,
			Concurrent:            true,
			Encyclopedic:          true,
			Web:                   true,
			Research:              true,
			EncyclopedicThreshold: 0.25,
			WebThreshold:          0.15,
			ResearchThreshold:     0.25,
			Keywords:              6,
			WebMaxResults:         10,
			ResearchRows:          5,
		},
		HTTP: HTTPConfig{
			UserAgent:          "OriginalityScanner/1.0",
			CallTimeoutSeconds: 8,
			PageTimeoutSeconds: 25,
			WikipediaURL:       "https://en.wikipedia.org",
			DuckDuckGoURL:      "https://html.duckduckgo.com/html/",
			CrossrefURL:        "https://api.crossref.org",
			SemanticScholarURL: "https://api.semanticscholar.org",
		},
		Embedding: EmbeddingConfig{
			Enabled:        false,
			Addr:           "localhost:50051",
			Method:         "/embedding.Embedder/Encode",
			TimeoutSeconds: 10,
		},
		Forensics: ForensicsConfig{
			FingerprintWindow:    50,
			FingerprintStride:    25,
			SuspiciousGapSeconds: 300,
			Workers:              4,
		},
		Storage: StorageConfig{
			WorkspaceDir: "workspace",
			SQLitePath:   "workspace/originality.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
