package timeline

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateGap(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		gap        time.Duration
		suspicious bool
	}{
		{name: "one minute", gap: 60 * time.Second, suspicious: true},
		{name: "one hour", gap: time.Hour, suspicious: false},
		{name: "just under threshold", gap: 299 * time.Second, suspicious: true},
		{name: "at threshold", gap: 300 * time.Second, suspicious: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(created, created.Add(tc.gap), DefaultSuspiciousGap)
			assert.Equal(t, tc.suspicious, got.Suspicious)
			assert.Equal(t, tc.gap.Seconds(), got.TimeDifferenceSeconds)
		})
	}
}

func TestEvaluateInterpretation(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	normal := Evaluate(created, created.Add(time.Hour), 0)
	assert.Regexp(t, `^Normal timeline`, normal.Interpretation)
	assert.Contains(t, normal.Interpretation, "after creation")
	assert.Equal(t, "2024-03-01T09:00:00Z", normal.Created)

	quick := Evaluate(created, created.Add(time.Minute), 0)
	assert.Regexp(t, `^Suspicious`, quick.Interpretation)
}

func TestAnalyzeMissingFile(t *testing.T) {
	got := Analyze(filepath.Join(t.TempDir(), "missing.txt"), DefaultSuspiciousGap)
	assert.Equal(t, Unknown, got.Created)
	assert.Equal(t, Unknown, got.Modified)
	assert.False(t, got.Suspicious)
	assert.Zero(t, got.TimeDifferenceSeconds)
}

func TestAnalyzeFreshFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("creation time only read on linux")
	}
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("draft"), 0o644))

	got := Analyze(path, DefaultSuspiciousGap)
	assert.NotEqual(t, Unknown, got.Created)
	assert.True(t, got.Suspicious, "freshly written file: %+v", got)
}
