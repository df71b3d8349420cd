// Package scoring ranks scan matches and turns them into an originality
// score and a verdict.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"originality/internal/scan"
)

const highSimilarity = 0.70

// Rank drops later matches whose key was already seen, then orders the
// survivors by similarity, highest first. Ties keep scan order. On a key
// collision the first match wins even when a later one scores higher.
func Rank(matches []scan.Match) []scan.Match {
	seen := make(map[string]struct{}, len(matches))
	out := make([]scan.Match, 0, len(matches))
	for _, m := range matches {
		key := m.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}

// Originality is 100 minus the mean similarity in percent, floored at zero
// and rounded to one decimal. No matches means fully original.
func Originality(matches []scan.Match) float64 {
	if len(matches) == 0 {
		return 100.0
	}
	var total float64
	for _, m := range matches {
		total += m.Similarity * 100
	}
	score := 100.0 - total/float64(len(matches))
	return math.Max(0, math.Round(score*10)/10)
}

type Tier string

const (
	TierPlagiarism Tier = "plagiarism detected"
	TierHigh       Tier = "high similarity"
	TierModerate   Tier = "moderate similarity"
	TierMinor      Tier = "minor similarity"
	TierOriginal   Tier = "largely original"
)

// Flags carries the forensic findings that annotate a verdict.
type Flags struct {
	AuthorshipAnomaly  bool
	TimelineSuspicious bool
}

type Verdict struct {
	Tier       Tier        `json:"tier"`
	Certainty  string      `json:"certainty"`
	Indicators []string    `json:"indicators"`
	TopMatch   *scan.Match `json:"top_match,omitempty"`
}

// Judge picks the tier from the most similar match alone. Forensic flags and
// the count of matches above 0.70 are reported as indicators and never move
// the tier.
func Judge(matches []scan.Match, flags Flags) Verdict {
	v := Verdict{Tier: TierOriginal, Indicators: []string{}}

	var top *scan.Match
	high := 0
	for i := range matches {
		if top == nil || matches[i].Similarity > top.Similarity {
			top = &matches[i]
		}
		if matches[i].Similarity > highSimilarity {
			high++
		}
	}

	if top == nil {
		v.Certainty = "No matching sources found"
	} else {
		m := *top
		v.TopMatch = &m
		pct := m.Similarity * 100
		switch {
		case m.Similarity > 0.80:
			v.Tier = TierPlagiarism
			v.Certainty = fmt.Sprintf("Certainty: EXTREME - %.1f%% similarity with a known source", pct)
		case m.Similarity > 0.60:
			v.Tier = TierHigh
			v.Certainty = fmt.Sprintf("Certainty: HIGH - %.1f%% similarity with a potential source", pct)
		case m.Similarity > 0.40:
			v.Tier = TierModerate
			v.Certainty = fmt.Sprintf("Certainty: MEDIUM - %.1f%% similarity, review recommended", pct)
		case m.Similarity > 0.20:
			v.Tier = TierMinor
			v.Certainty = fmt.Sprintf("Certainty: LOW - %.1f%% similarity, likely incidental", pct)
		default:
			v.Certainty = "Certainty: MINIMAL - no substantial overlap"
		}
	}

	if flags.AuthorshipAnomaly {
		v.Indicators = append(v.Indicators, "authorship anomaly")
	}
	if flags.TimelineSuspicious {
		v.Indicators = append(v.Indicators, "timeline suspicious")
	}
	if high > 0 {
		v.Indicators = append(v.Indicators, fmt.Sprintf("%d high-similarity matches", high))
	}
	if len(v.Indicators) > 0 {
		v.Certainty += " | indicators: " + strings.Join(v.Indicators, ", ")
	}
	return v
}
