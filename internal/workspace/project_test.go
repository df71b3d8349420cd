package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originality/internal/report"
	"originality/internal/scan"
)

func TestCreateProject(t *testing.T) {
	base := filepath.Join(t.TempDir(), BaseDirName)
	root, err := EnsureAt(base)
	require.NoError(t, err)

	project, err := CreateProject(root, "/tmp/uploads/My Thesis.pdf", []byte("%PDF-fake"))
	require.NoError(t, err)
	assert.DirExists(t, project.Root)
	assert.FileExists(t, project.SourcePath)
	assert.Equal(t, "My Thesis.pdf", filepath.Base(project.SourcePath))

	again, err := CreateProject(root, "my thesis.docx", nil)
	require.NoError(t, err)
	assert.Equal(t, project.ID, again.ID, "same title maps to the same project")
	assert.Empty(t, again.SourcePath)
}

func TestSettings(t *testing.T) {
	base, err := EnsureAt(t.TempDir())
	require.NoError(t, err)

	s, err := LoadSettings(base)
	require.NoError(t, err)
	assert.True(t, s.KeepSource)
	assert.Equal(t, filepath.Join(base, "originality.db"), s.DatabasePath(base))

	require.NoError(t, os.WriteFile(filepath.Join(base, "configs", "settings.json"), []byte(`{"keep_source": false}`), 0o644))
	s, err = LoadSettings(base)
	require.NoError(t, err)
	assert.False(t, s.KeepSource)
	assert.Equal(t, "originality.db", s.Database)
}

func TestSaveReportRoundTrip(t *testing.T) {
	root, err := EnsureAt(t.TempDir())
	require.NoError(t, err)
	project, err := CreateProject(root, "essay.txt", nil)
	require.NoError(t, err)

	r := report.Assemble(report.Parts{
		File:    "essay.txt",
		Matches: []scan.Match{{Source: scan.SourceWebsite, Title: "Blog", URL: "https://example.com", Similarity: 0.5, Snippet: "x"}},
	})
	require.NoError(t, SaveReport(project.ReportPath, r))

	loaded, err := LoadReport(project.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, r.ID, loaded.ID)
	assert.Equal(t, 50.0, loaded.OriginalityScore)
	assert.Len(t, loaded.Matches, 1)
}

func TestSaveReportRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := report.Assemble(report.Parts{File: "essay.txt"})
	r.OriginalityScore = 140

	assert.Error(t, SaveReport(path, r))
	assert.NoFileExists(t, path)
}
