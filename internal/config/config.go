// Package config loads detection settings from TOML, YAML or JSON files with
// ORIGINALITY_* environment overrides.
package config

import "time"

type Config struct {
	Scan      ScanConfig      `toml:"scan" json:"scan" yaml:"scan"`
	HTTP      HTTPConfig      `toml:"http" json:"http" yaml:"http"`
	Embedding EmbeddingConfig `toml:"embedding" json:"embedding" yaml:"embedding"`
	Forensics ForensicsConfig `toml:"forensics" json:"forensics" yaml:"forensics"`
	Storage   StorageConfig   `toml:"storage" json:"storage" yaml:"storage"`
	Logging   LoggingConfig   `toml:"logging" json:"logging" yaml:"logging"`
}

type ScanConfig struct {
	BudgetSeconds int  `toml:"budget_seconds" json:"budget_seconds" yaml:"budget_seconds"`
	Concurrent    bool `toml:"concurrent" json:"concurrent" yaml:"concurrent"`

	Encyclopedic bool `toml:"encyclopedic" json:"encyclopedic" yaml:"encyclopedic"`
	Web          bool `toml:"web" json:"web" yaml:"web"`
	Research     bool `toml:"research" json:"research" yaml:"research"`

	EncyclopedicThreshold float64 `toml:"encyclopedic_threshold" json:"encyclopedic_threshold" yaml:"encyclopedic_threshold"`
	WebThreshold          float64 `toml:"web_threshold" json:"web_threshold" yaml:"web_threshold"`
	ResearchThreshold     float64 `toml:"research_threshold" json:"research_threshold" yaml:"research_threshold"`

	Keywords      int `toml:"keywords" json:"keywords" yaml:"keywords"`
	WebMaxResults int `toml:"web_max_results" json:"web_max_results" yaml:"web_max_results"`
	ResearchRows  int `toml:"research_rows" json:"research_rows" yaml:"research_rows"`
}

type HTTPConfig struct {
	UserAgent          string `toml:"user_agent" json:"user_agent" yaml:"user_agent"`
	CallTimeoutSeconds int    `toml:"call_timeout_seconds" json:"call_timeout_seconds" yaml:"call_timeout_seconds"`
	PageTimeoutSeconds int    `toml:"page_timeout_seconds" json:"page_timeout_seconds" yaml:"page_timeout_seconds"`

	WikipediaURL       string `toml:"wikipedia_url" json:"wikipedia_url" yaml:"wikipedia_url"`
	DuckDuckGoURL      string `toml:"duckduckgo_url" json:"duckduckgo_url" yaml:"duckduckgo_url"`
	CrossrefURL        string `toml:"crossref_url" json:"crossref_url" yaml:"crossref_url"`
	SemanticScholarURL string `toml:"semantic_scholar_url" json:"semantic_scholar_url" yaml:"semantic_scholar_url"`
}

type EmbeddingConfig struct {
	Enabled        bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Addr           string `toml:"addr" json:"addr" yaml:"addr"`
	Method         string `toml:"method" json:"method" yaml:"method"`
	TimeoutSeconds int    `toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
}

type ForensicsConfig struct {
	FingerprintWindow    int `toml:"fingerprint_window" json:"fingerprint_window" yaml:"fingerprint_window"`
	FingerprintStride    int `toml:"fingerprint_stride" json:"fingerprint_stride" yaml:"fingerprint_stride"`
	SuspiciousGapSeconds int `toml:"suspicious_gap_seconds" json:"suspicious_gap_seconds" yaml:"suspicious_gap_seconds"`
	Workers              int `toml:"workers" json:"workers" yaml:"workers"`
}

type StorageConfig struct {
	WorkspaceDir string `toml:"workspace_dir" json:"workspace_dir" yaml:"workspace_dir"`
	SQLitePath   string `toml:"sqlite_path" json:"sqlite_path" yaml:"sqlite_path"`
}

type LoggingConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`
	Format string `toml:"format" json:"format" yaml:"format"`
	Output string `toml:"output" json:"output" yaml:"output"`
}

func (s ScanConfig) Budget() time.Duration {
	return time.Duration(s.BudgetSeconds) * time.Second
}

func (h HTTPConfig) CallTimeout() time.Duration {
	return time.Duration(h.CallTimeoutSeconds) * time.Second
}

func (h HTTPConfig) PageTimeout() time.Duration {
	return time.Duration(h.PageTimeoutSeconds) * time.Second
}

func (e EmbeddingConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

func (f ForensicsConfig) SuspiciousGap() time.Duration {
	return time.Duration(f.SuspiciousGapSeconds) * time.Second
}
