package forensics

import (
	"context"
	"regexp"
	"strings"
)

const (
	maxHeatmapFragments = 15
	minFragmentChars    = 50
	previewChars        = 100
)

var fragmentSplit = regexp.MustCompile(`[.!?]`)

// SimilarityFunc scores two spans in [0,1].
type SimilarityFunc func(ctx context.Context, a, b string) float64

type HeatCell struct {
	SegmentID   int     `json:"segment_id"`
	TextPreview string  `json:"text_preview"`
	Similarity  float64 `json:"similarity"`
	RiskLevel   string  `json:"risk_level"`
	Color       string  `json:"color"`
}

// Heatmap rates the leading sentence fragments of text against the snippets
// of the ranked matches.
func Heatmap(ctx context.Context, score SimilarityFunc, text string, snippets []string) []HeatCell {
	fragments := heatmapFragments(text)
	out := make([]HeatCell, 0, len(fragments))
	for i, frag := range fragments {
		var best float64
		if score != nil {
			for _, snip := range snippets {
				best = max(best, score(ctx, frag, snip))
			}
		}
		level, color := riskLevel(best)
		out = append(out, HeatCell{
			SegmentID:   i,
			TextPreview: preview(frag, previewChars),
			Similarity:  round(best, 3),
			RiskLevel:   level,
			Color:       color,
		})
	}
	return out
}

func heatmapFragments(text string) []string {
	var out []string
	for _, part := range fragmentSplit.Split(text, -1) {
		if len(part) <= minFragmentChars {
			continue
		}
		out = append(out, strings.TrimSpace(part))
		if len(out) == maxHeatmapFragments {
			break
		}
	}
	return out
}

func riskLevel(sim float64) (string, string) {
	switch {
	case sim > 0.7:
		return "High", "red"
	case sim > 0.4:
		return "Medium", "orange"
	default:
		return "Low", "green"
	}
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
