package offline

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originality/internal/config"
	"originality/internal/db"
	"originality/internal/detect"
	"originality/internal/workspace"
)

type failTransport struct{}

func (f failTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network disabled for offline test")
}

func TestOfflineMode(t *testing.T) {
	original := http.DefaultTransport
	http.DefaultTransport = failTransport{}
	t.Cleanup(func() { http.DefaultTransport = original })

	dir := t.TempDir()
	path := filepath.Join(dir, "essay.txt")
	text := "Introduction\n\n" + strings.Repeat("Glaciers retreat when summer melt exceeds winter snowfall over many years. ", 40)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	d, err := detect.FromConfig(context.Background(), config.DefaultConfig(), nil)
	require.NoError(t, err)
	defer d.Close()

	r, err := d.Run(context.Background(), path)
	require.NoError(t, err, "detection should work offline")
	assert.Equal(t, 100.0, r.OriginalityScore)
	assert.Empty(t, r.Matches)
	for _, source := range []string{"Wikipedia", "Website", "CrossRef", "SemanticScholar"} {
		assert.NotZero(t, r.Diagnostics.ScanErrors[source], "%s call errors: %v", source, r.Diagnostics.ScanErrors)
	}
	assert.NotEmpty(t, r.Segments)
	assert.NotEmpty(t, r.ForensicAnalysis.Fingerprints)

	root, err := workspace.EnsureAt(filepath.Join(dir, workspace.BaseDirName))
	require.NoError(t, err)
	project, err := workspace.CreateProject(root, path, nil)
	require.NoError(t, err)
	require.NoError(t, workspace.SaveReport(project.ReportPath, r))

	dbPath := filepath.Join(root, "originality.db")
	require.NoError(t, db.PersistReport(dbPath, r))
	n, err := db.CountRows(dbPath, "reports")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
