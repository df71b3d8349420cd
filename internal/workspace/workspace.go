// Package workspace lays out the on-disk project tree that holds saved
// reports.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const BaseDirName = "Originality"

type Settings struct {
	KeepSource bool   `json:"keep_source"`
	Database   string `json:"database"`
}

func defaultSettings() Settings {
	return Settings{KeepSource: true, Database: "originality.db"}
}

func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

// EnsureAt creates the workspace tree under base and writes default settings
// when none exist yet.
func EnsureAt(base string) (string, error) {
	paths := []string{
		filepath.Join(base, "configs"),
		filepath.Join(base, "inbox"),
		filepath.Join(base, "projects"),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	settingsPath := filepath.Join(base, "configs", "settings.json")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		raw, marshalErr := json.MarshalIndent(defaultSettings(), "", "  ")
		if marshalErr != nil {
			return "", fmt.Errorf("marshal settings: %w", marshalErr)
		}
		if writeErr := os.WriteFile(settingsPath, raw, 0o644); writeErr != nil {
			return "", fmt.Errorf("write settings: %w", writeErr)
		}
	}

	return base, nil
}

// LoadSettings reads configs/settings.json. Missing fields keep their
// defaults.
func LoadSettings(base string) (Settings, error) {
	s := defaultSettings()
	raw, err := os.ReadFile(filepath.Join(base, "configs", "settings.json"))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// DatabasePath resolves the settings database relative to base.
func (s Settings) DatabasePath(base string) string {
	if s.Database == "" || filepath.IsAbs(s.Database) {
		return s.Database
	}
	return filepath.Join(base, s.Database)
}
