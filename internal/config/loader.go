package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ORIGINALITY_"

// Load reads path (an empty path means defaults only), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalid, ext)
	}
	return nil
}

// ApplyEnvOverrides overlays ORIGINALITY_* variables onto c.
func (c *Config) ApplyEnvOverrides() {
	c.Scan.BudgetSeconds = getenvInt(envPrefix+"SCAN_BUDGET_SECONDS", c.Scan.BudgetSeconds)
	c.Scan.Concurrent = getenvBool(envPrefix+"SCAN_CONCURRENT", c.Scan.Concurrent)
	c.Scan.Encyclopedic = getenvBool(envPrefix+"SCAN_ENCYCLOPEDIC", c.Scan.Encyclopedic)
	c.Scan.Web = getenvBool(envPrefix+"SCAN_WEB", c.Scan.Web)
	c.Scan.Research = getenvBool(envPrefix+"SCAN_RESEARCH", c.Scan.Research)
	c.Scan.EncyclopedicThreshold = getenvFloat(envPrefix+"SCAN_ENCYCLOPEDIC_THRESHOLD", c.Scan.EncyclopedicThreshold)
	c.Scan.WebThreshold = getenvFloat(envPrefix+"SCAN_WEB_THRESHOLD", c.Scan.WebThreshold)
	c.Scan.ResearchThreshold = getenvFloat(envPrefix+"SCAN_RESEARCH_THRESHOLD", c.Scan.ResearchThreshold)

	c.HTTP.UserAgent = getenvString(envPrefix+"HTTP_USER_AGENT", c.HTTP.UserAgent)
	c.HTTP.CallTimeoutSeconds = getenvInt(envPrefix+"HTTP_CALL_TIMEOUT_SECONDS", c.HTTP.CallTimeoutSeconds)
	c.HTTP.PageTimeoutSeconds = getenvInt(envPrefix+"HTTP_PAGE_TIMEOUT_SECONDS", c.HTTP.PageTimeoutSeconds)

	c.Embedding.Enabled = getenvBool(envPrefix+"EMBEDDING_ENABLED", c.Embedding.Enabled)
	c.Embedding.Addr = getenvString(envPrefix+"EMBEDDING_ADDR", c.Embedding.Addr)
	c.Embedding.TimeoutSeconds = getenvInt(envPrefix+"EMBEDDING_TIMEOUT_SECONDS", c.Embedding.TimeoutSeconds)

	c.Forensics.Workers = getenvInt(envPrefix+"FORENSICS_WORKERS", c.Forensics.Workers)
	c.Forensics.SuspiciousGapSeconds = getenvInt(envPrefix+"FORENSICS_SUSPICIOUS_GAP_SECONDS", c.Forensics.SuspiciousGapSeconds)

	c.Storage.WorkspaceDir = getenvString(envPrefix+"WORKSPACE_DIR", c.Storage.WorkspaceDir)
	c.Storage.SQLitePath = getenvString(envPrefix+"SQLITE_PATH", c.Storage.SQLitePath)

	c.Logging.Level = getenvString(envPrefix+"LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getenvString(envPrefix+"LOG_FORMAT", c.Logging.Format)
}

func getenvString(name, fallback string) string {
	if raw := strings.TrimSpace(os.Getenv(name)); raw != "" {
		return raw
	}
	return fallback
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	return raw == "1" || raw == "true" || raw == "yes" || raw == "on"
}
