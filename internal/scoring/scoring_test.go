package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originality/internal/scan"
)

func match(url string, sim float64) scan.Match {
	return scan.Match{Source: scan.SourceWebsite, URL: url, Similarity: sim}
}

func TestRankKeepsFirstSeenOnCollision(t *testing.T) {
	ranked := Rank([]scan.Match{match("https://x.example", 0.6), match("https://x.example", 0.9)})
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.6, ranked[0].Similarity)
}

func TestRankSortedAndUnique(t *testing.T) {
	in := []scan.Match{
		match("a", 0.2),
		match("b", 0.9),
		{Source: scan.SourceCrossRef, DOI: "10.1/x", Similarity: 0.5},
		match("a", 0.99),
		{Source: scan.SourceSemanticScholar, Title: "Paper", Similarity: 0.5},
		{Source: scan.SourceWikipedia, Snippet: "only snippet", Similarity: 0.7},
	}
	ranked := Rank(in)
	require.Len(t, ranked, 5)

	seen := map[string]bool{}
	for i, m := range ranked {
		assert.False(t, seen[m.Key()], "duplicate key %q", m.Key())
		seen[m.Key()] = true
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Similarity, m.Similarity, "sorted descending at %d", i)
		}
	}
	// equal similarities keep scan order
	assert.Equal(t, "10.1/x", ranked[2].DOI)
	assert.Equal(t, "Paper", ranked[3].Title)
}

func TestOriginality(t *testing.T) {
	cases := []struct {
		name    string
		matches []scan.Match
		want    float64
	}{
		{"no matches", nil, 100},
		{"all identical", []scan.Match{match("a", 1), match("b", 1), match("c", 1)}, 0},
		{"mean penalty", []scan.Match{match("a", 0.3), match("b", 0.5)}, 60},
		{"rounded to one decimal", []scan.Match{match("a", 0.333)}, 66.7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Originality(tc.matches))
		})
	}
}

func TestOriginalityMonotonic(t *testing.T) {
	base := []scan.Match{match("a", 0.3), match("b", 0.4)}
	before := Originality(base)
	after := Originality(append(base, match("c", 0.9)))
	assert.LessOrEqual(t, after, before)
}

func TestJudgeTiers(t *testing.T) {
	cases := []struct {
		sim  float64
		want Tier
	}{
		{0.95, TierPlagiarism},
		{0.80, TierHigh},
		{0.61, TierHigh},
		{0.60, TierModerate},
		{0.40, TierMinor},
		{0.20, TierOriginal},
	}
	for _, tc := range cases {
		v := Judge([]scan.Match{match("a", tc.sim)}, Flags{})
		assert.Equal(t, tc.want, v.Tier, "similarity %v", tc.sim)
	}
}

func TestJudgeIndicatorsDoNotChangeTier(t *testing.T) {
	matches := []scan.Match{match("a", 0.75), match("b", 0.72), match("c", 0.1)}
	v := Judge(matches, Flags{AuthorshipAnomaly: true, TimelineSuspicious: true})

	assert.Equal(t, TierHigh, v.Tier)
	assert.Equal(t, []string{"authorship anomaly", "timeline suspicious", "2 high-similarity matches"}, v.Indicators)
	require.NotNil(t, v.TopMatch)
	assert.Equal(t, "a", v.TopMatch.URL)
}

func TestJudgeNoMatches(t *testing.T) {
	v := Judge(nil, Flags{})
	assert.Equal(t, TierOriginal, v.Tier)
	assert.Nil(t, v.TopMatch)
	assert.Empty(t, v.Indicators)
}
