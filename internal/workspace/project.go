package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"originality/internal/report"
)

type ProjectInfo struct {
	ID         string
	Root       string
	SourcePath string
	ReportPath string
}

// CreateProject makes projects/<hash>/ for the named document. The hash is
// taken from the file's base name so rescans of the same file share a
// project. source is copied in when non-empty.
func CreateProject(workspaceRoot, fileName string, source []byte) (*ProjectInfo, error) {
	id := titleHash(fileName)
	projectRoot := filepath.Join(workspaceRoot, "projects", id)
	if err := os.MkdirAll(projectRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}

	info := &ProjectInfo{
		ID:         id,
		Root:       projectRoot,
		ReportPath: filepath.Join(projectRoot, "report.json"),
	}
	if len(source) > 0 {
		info.SourcePath = filepath.Join(projectRoot, sanitizeSourceName(fileName))
		if err := os.WriteFile(info.SourcePath, source, 0o644); err != nil {
			return nil, fmt.Errorf("write source file: %w", err)
		}
	}
	return info, nil
}

// SaveReport validates r against the report schema and writes it as
// indented JSON.
func SaveReport(path string, r *report.Report) error {
	if err := report.Validate(r); err != nil {
		return fmt.Errorf("validate report: %w", err)
	}
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// LoadReport reads a saved report back.
func LoadReport(path string) (*report.Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r report.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

func titleHash(name string) string {
	title := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	trimmed := strings.TrimSpace(strings.ToLower(title))
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])[:12]
}

func sanitizeSourceName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "source"
	}
	return strings.ReplaceAll(base, "..", "")
}
