package scan

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearcher runs a general web search.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type Page struct {
	URL     string
	Title   string
	Content string
}

// PageFetcher downloads a page and reduces it to its main text.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (Page, error)
}

// DuckDuckGo scrapes the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
}

func NewDuckDuckGo(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{BaseURL: DefaultDuckDuckGoURL, Client: client, UserAgent: browserUserAgent}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	header := http.Header{}
	header.Set("User-Agent", d.UserAgent)
	body, err := fetch(ctx, d.Client, d.BaseURL, url.Values{"q": {query}}, header)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}
	return parseDuckDuckGo(doc, limit), nil
}

func parseDuckDuckGo(doc *html.Node, limit int) []SearchResult {
	var out []SearchResult
	walk(doc, func(n *html.Node) {
		if len(out) >= limit || n.DataAtom != atom.A || !hasClass(n, "result__a") {
			return
		}
		link := resolveRedirect(attr(n, "href"))
		if link == "" {
			return
		}
		out = append(out, SearchResult{Title: nodeText(n), URL: link})
	})

	snippets := 0
	walk(doc, func(n *html.Node) {
		if snippets >= len(out) || !hasClass(n, "result__snippet") {
			return
		}
		out[snippets].Snippet = nodeText(n)
		snippets++
	})
	return out
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return n.Type == html.ElementNode && slices.Contains(strings.Fields(attr(n, "class")), class)
}

// HTTPFetcher retrieves pages over HTTP.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{Client: client, UserAgent: browserUserAgent}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (Page, error) {
	header := http.Header{}
	header.Set("User-Agent", f.UserAgent)
	header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	header.Set("Accept-Language", "en-US,en;q=0.5")
	body, err := fetch(ctx, f.Client, pageURL, nil, header)
	if err != nil {
		return Page{}, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parse page: %w", err)
	}
	title, content := extractContent(doc)
	return Page{URL: pageURL, Title: title, Content: content}, nil
}

var overlapWord = regexp.MustCompile(`\b\w+\b`)

// wordOverlap is the share of the segment's distinct words found in content.
func wordOverlap(segment, content string) float64 {
	seg := overlapWord.FindAllString(strings.ToLower(segment), -1)
	if len(seg) == 0 {
		return 0
	}
	inContent := map[string]struct{}{}
	for _, w := range overlapWord.FindAllString(strings.ToLower(content), -1) {
		inContent[w] = struct{}{}
	}
	distinct := map[string]struct{}{}
	common := 0
	for _, w := range seg {
		if _, ok := distinct[w]; ok {
			continue
		}
		distinct[w] = struct{}{}
		if _, ok := inContent[w]; ok {
			common++
		}
	}
	return float64(common) / float64(len(distinct))
}

// Web searches the open web with each segment and compares the segment with
// the main text of every result page.
type Web struct {
	Searcher     WebSearcher
	Fetcher      PageFetcher
	Scorer       Scorer
	MaxResults   int
	QueryChars   int
	MinContent   int
	TitleChars   int
	SnippetChars int
	Threshold    float64
	Clock        func() time.Time

	logger *slog.Logger
}

func NewWeb(searcher WebSearcher, fetcher PageFetcher, scorer Scorer, logger *slog.Logger) *Web {
	return &Web{
		Searcher:     searcher,
		Fetcher:      fetcher,
		Scorer:       scorer,
		MaxResults:   10,
		QueryChars:   300,
		MinContent:   150,
		TitleChars:   200,
		SnippetChars: 800,
		Threshold:    0.15,
		logger:       componentLogger(logger, "web"),
	}
}

func (w *Web) Name() string { return "web" }

func (w *Web) Scan(ctx context.Context, doc Document, budget time.Duration) Outcome {
	r := newRun(ctx, w.Clock, budget, w.logger)

segments:
	for _, seg := range doc.Segments {
		if !r.proceed() {
			break
		}
		results, err := w.Searcher.Search(ctx, head(seg.Text, w.QueryChars), w.MaxResults)
		if err != nil {
			r.fail(SourceWebsite, "search", err)
			continue
		}

		for _, res := range results {
			if res.URL == "" {
				continue
			}
			if !r.proceed() {
				break segments
			}
			page, err := w.Fetcher.Fetch(ctx, res.URL)
			if err != nil {
				r.fail(SourceWebsite, "fetch", err)
				continue
			}
			if len(page.Content) < w.MinContent {
				continue
			}

			sim := max(w.Scorer.Similarity(ctx, seg.Text, page.Content), wordOverlap(seg.Text, page.Content))
			if sim <= w.Threshold {
				continue
			}

			doi := firstNonEmpty(FirstDOI(res.URL), FirstDOI(res.Snippet), FirstDOI(page.Content))
			title := res.Title
			if title == "" {
				title = page.Title
			}
			if title == "" {
				title = res.URL
			}
			r.emit(Match{
				Source:     SourceWebsite,
				Title:      head(title, w.TitleChars),
				URL:        res.URL,
				DOI:        doi,
				Similarity: round3(sim),
				Snippet:    snippet(page.Content, w.SnippetChars),
			})
		}
	}
	return r.out
}
