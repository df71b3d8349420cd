package scan

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DefaultWikipediaURL = "https://en.wikipedia.org"

// EncyclopediaClient searches an encyclopedia and returns plain-text
// article extracts.
type EncyclopediaClient interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Extract(ctx context.Context, title string, maxChars int) (string, error)
	PageURL(title string) string
}

// Wikipedia talks to the MediaWiki action API.
type Wikipedia struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
}

func NewWikipedia(client *http.Client, userAgent string) *Wikipedia {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Wikipedia{BaseURL: DefaultWikipediaURL, Client: client, UserAgent: userAgent}
}

func (w *Wikipedia) api() string {
	return strings.TrimRight(w.BaseURL, "/") + "/w/api.php"
}

func (w *Wikipedia) Search(ctx context.Context, query string, limit int) ([]string, error) {
	var resp struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"format":   {"json"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
	}
	if err := getJSON(ctx, w.Client, w.api(), params, w.UserAgent, &resp); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(resp.Query.Search))
	for _, s := range resp.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

func (w *Wikipedia) Extract(ctx context.Context, title string, maxChars int) (string, error) {
	var resp struct {
		Query struct {
			Pages []struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	params := url.Values{
		"action":        {"query"},
		"prop":          {"extracts"},
		"titles":        {title},
		"explaintext":   {"1"},
		"exchars":       {strconv.Itoa(maxChars)},
		"redirects":     {"1"},
		"format":        {"json"},
		"formatversion": {"2"},
	}
	if err := getJSON(ctx, w.Client, w.api(), params, w.UserAgent, &resp); err != nil {
		return "", err
	}
	if len(resp.Query.Pages) == 0 {
		return "", nil
	}
	return resp.Query.Pages[0].Extract, nil
}

// PageURL always points at the public site so reports stay portable.
func (w *Wikipedia) PageURL(title string) string {
	return DefaultWikipediaURL + "/wiki/" + strings.ReplaceAll(title, " ", "_")
}

var keywordPattern = regexp.MustCompile(`\b[A-Za-z]{6,}\b`)

// Keywords returns the first n distinct words of six or more letters.
func Keywords(text string, n int) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, w := range keywordPattern.FindAllString(text, -1) {
		if len(out) == n {
			break
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Encyclopedic scores encyclopedia articles found via document keywords
// against the whole document.
type Encyclopedic struct {
	Client         EncyclopediaClient
	Scorer         Scorer
	Keywords       int
	HitsPerKeyword int
	ExtractChars   int
	SnippetChars   int
	Threshold      float64
	Clock          func() time.Time

	logger *slog.Logger
}

func NewEncyclopedic(client EncyclopediaClient, scorer Scorer, logger *slog.Logger) *Encyclopedic {
	return &Encyclopedic{
		Client:         client,
		Scorer:         scorer,
		Keywords:       6,
		HitsPerKeyword: 2,
		ExtractChars:   3000,
		SnippetChars:   400,
		Threshold:      0.25,
		logger:         componentLogger(logger, "encyclopedic"),
	}
}

func (e *Encyclopedic) Name() string { return "encyclopedic" }

func (e *Encyclopedic) Scan(ctx context.Context, doc Document, budget time.Duration) Outcome {
	r := newRun(ctx, e.Clock, budget, e.logger)

keywords:
	for _, kw := range Keywords(doc.Text, e.Keywords) {
		if !r.proceed() {
			break
		}
		titles, err := e.Client.Search(ctx, kw, e.HitsPerKeyword)
		if err != nil {
			r.fail(SourceWikipedia, "search", err)
			continue
		}
		if len(titles) > e.HitsPerKeyword {
			titles = titles[:e.HitsPerKeyword]
		}

		for _, title := range titles {
			if !r.proceed() {
				break keywords
			}
			extract, err := e.Client.Extract(ctx, title, e.ExtractChars)
			if err != nil {
				r.fail(SourceWikipedia, "extract", err)
				continue
			}
			if strings.TrimSpace(extract) == "" {
				continue
			}
			sim := e.Scorer.Similarity(ctx, doc.Text, extract)
			if sim <= e.Threshold {
				continue
			}
			r.emit(Match{
				Source:     SourceWikipedia,
				Title:      title,
				URL:        e.Client.PageURL(title),
				Similarity: round3(sim),
				Snippet:    snippet(extract, e.SnippetChars),
			})
		}
	}
	return r.out
}
