package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// WriteSummary prints a short human-readable digest of r.
func WriteSummary(w io.Writer, r *Report, topN int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "File:        %s\n", r.File)
	fmt.Fprintf(&b, "Analyzed:    %s\n", humanize.Time(r.AnalysisTime))
	fmt.Fprintf(&b, "Originality: %.1f%%\n", r.OriginalityScore)
	fmt.Fprintf(&b, "Verdict:     %s\n", strings.ToUpper(string(r.Verdict.Tier)))
	fmt.Fprintf(&b, "             %s\n", r.Verdict.Certainty)
	fmt.Fprintf(&b, "Matches:     %s across %s segments\n",
		humanize.Comma(int64(r.MatchesFound)), humanize.Comma(int64(len(r.Segments))))

	for i, m := range r.Matches {
		if i == topN {
			break
		}
		ref := m.URL
		if ref == "" {
			ref = m.DOI
		}
		fmt.Fprintf(&b, "  %2d. [%s] %.1f%% %s %s\n", i+1, m.Source, m.Similarity*100, m.Title, ref)
	}

	if n := len(r.Diagnostics.ScanErrors); n > 0 {
		parts := make([]string, 0, n)
		for src, count := range r.Diagnostics.ScanErrors {
			parts = append(parts, fmt.Sprintf("%s=%d", src, count))
		}
		slices.Sort(parts)
		fmt.Fprintf(&b, "Scan errors: %s\n", strings.Join(parts, " "))
	}
	if len(r.Diagnostics.TimedOut) > 0 {
		fmt.Fprintf(&b, "Timed out:   %s\n", strings.Join(r.Diagnostics.TimedOut, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
