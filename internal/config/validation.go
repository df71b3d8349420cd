package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error { return ErrInvalid }

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if c.Scan.BudgetSeconds <= 0 {
		add("scan.budget_seconds", "must be positive")
	}
	thresholds := []struct {
		field string
		value float64
	}{
		{"scan.encyclopedic_threshold", c.Scan.EncyclopedicThreshold},
		{"scan.web_threshold", c.Scan.WebThreshold},
		{"scan.research_threshold", c.Scan.ResearchThreshold},
	}
	for _, th := range thresholds {
		if th.value < 0 || th.value > 1 {
			add(th.field, "must be within [0,1]")
		}
	}
	if c.Scan.Keywords <= 0 {
		add("scan.keywords", "must be positive")
	}
	if c.Scan.WebMaxResults <= 0 {
		add("scan.web_max_results", "must be positive")
	}
	if c.Scan.ResearchRows <= 0 {
		add("scan.research_rows", "must be positive")
	}

	if c.HTTP.CallTimeoutSeconds <= 0 {
		add("http.call_timeout_seconds", "must be positive")
	}
	if c.HTTP.PageTimeoutSeconds <= 0 {
		add("http.page_timeout_seconds", "must be positive")
	}

	if c.Embedding.Enabled && strings.TrimSpace(c.Embedding.Addr) == "" {
		add("embedding.addr", "required when embedding is enabled")
	}
	if c.Embedding.Enabled && !strings.HasPrefix(c.Embedding.Method, "/") {
		add("embedding.method", "must be a full method name such as /pkg.Service/Method")
	}

	if c.Forensics.FingerprintWindow <= 0 {
		add("forensics.fingerprint_window", "must be positive")
	}
	if c.Forensics.FingerprintStride < 0 {
		add("forensics.fingerprint_stride", "must not be negative")
	}
	if c.Forensics.SuspiciousGapSeconds <= 0 {
		add("forensics.suspicious_gap_seconds", "must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		add("logging.format", fmt.Sprintf("unknown format %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
