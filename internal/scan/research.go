package scan

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultCrossrefURL        = "https://api.crossref.org"
	DefaultSemanticScholarURL = "https://api.semanticscholar.org"
)

type Paper struct {
	Title    string
	Abstract string
	URL      string
	DOI      string
}

// BibliographyClient searches a scholarly index.
type BibliographyClient interface {
	Source() Source
	Search(ctx context.Context, query string, limit int) ([]Paper, error)
}

// Crossref queries the Crossref works API.
type Crossref struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
}

func NewCrossref(client *http.Client, userAgent string) *Crossref {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Crossref{BaseURL: DefaultCrossrefURL, Client: client, UserAgent: userAgent}
}

func (c *Crossref) Source() Source { return SourceCrossRef }

func (c *Crossref) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	var resp struct {
		Message struct {
			Items []struct {
				DOI      string   `json:"DOI"`
				Title    []string `json:"title"`
				URL      string   `json:"URL"`
				Abstract string   `json:"abstract"`
			} `json:"items"`
		} `json:"message"`
	}
	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {strconv.Itoa(limit)},
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/works"
	if err := getJSON(ctx, c.Client, endpoint, params, c.UserAgent, &resp); err != nil {
		return nil, err
	}

	papers := make([]Paper, 0, len(resp.Message.Items))
	for _, item := range resp.Message.Items {
		papers = append(papers, Paper{
			Title:    strings.Join(item.Title, " "),
			Abstract: htmlText(item.Abstract),
			URL:      item.URL,
			DOI:      item.DOI,
		})
	}
	return papers, nil
}

// SemanticScholar queries the Semantic Scholar graph API.
type SemanticScholar struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
}

func NewSemanticScholar(client *http.Client, userAgent string) *SemanticScholar {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &SemanticScholar{BaseURL: DefaultSemanticScholarURL, Client: client, UserAgent: userAgent}
}

func (s *SemanticScholar) Source() Source { return SourceSemanticScholar }

func (s *SemanticScholar) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	var resp struct {
		Data []struct {
			Title       string `json:"title"`
			Abstract    string `json:"abstract"`
			URL         string `json:"url"`
			ExternalIDs struct {
				DOI     string `json:"DOI"`
				ArXiv   string `json:"ArXiv"`
				ArXivID string `json:"ArXivId"`
			} `json:"externalIds"`
		} `json:"data"`
	}
	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {"title,abstract,url,externalIds"},
	}
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/graph/v1/paper/search"
	if err := getJSON(ctx, s.Client, endpoint, params, s.UserAgent, &resp); err != nil {
		return nil, err
	}

	papers := make([]Paper, 0, len(resp.Data))
	for _, item := range resp.Data {
		doi := item.ExternalIDs.DOI
		if doi == "" {
			doi = item.ExternalIDs.ArXivID
		}
		if doi == "" {
			doi = item.ExternalIDs.ArXiv
		}
		papers = append(papers, Paper{
			Title:    item.Title,
			Abstract: item.Abstract,
			URL:      item.URL,
			DOI:      doi,
		})
	}
	return papers, nil
}

// Research looks each segment up in scholarly indexes and compares it with
// the abstract, or the title when no abstract is available.
type Research struct {
	Clients      []BibliographyClient
	Scorer       Scorer
	Rows         int
	QueryChars   int
	SnippetChars int
	Threshold    float64
	Clock        func() time.Time

	logger *slog.Logger
}

func NewResearch(clients []BibliographyClient, scorer Scorer, logger *slog.Logger) *Research {
	return &Research{
		Clients:      clients,
		Scorer:       scorer,
		Rows:         5,
		QueryChars:   200,
		SnippetChars: 400,
		Threshold:    0.25,
		logger:       componentLogger(logger, "research"),
	}
}

func (r *Research) Name() string { return "research" }

func (r *Research) Scan(ctx context.Context, doc Document, budget time.Duration) Outcome {
	rn := newRun(ctx, r.Clock, budget, r.logger)

segments:
	for _, seg := range doc.Segments {
		query := head(seg.Text, r.QueryChars)
		for _, client := range r.Clients {
			if !rn.proceed() {
				break segments
			}
			papers, err := client.Search(ctx, query, r.Rows)
			if err != nil {
				rn.fail(client.Source(), "search", err)
				continue
			}
			for _, p := range papers {
				against := p.Abstract
				if against == "" {
					against = p.Title
				}
				if against == "" {
					continue
				}
				sim := r.Scorer.Similarity(ctx, seg.Text, against)
				if sim <= r.Threshold {
					continue
				}
				rn.emit(Match{
					Source:     client.Source(),
					Title:      p.Title,
					URL:        p.URL,
					DOI:        p.DOI,
					Similarity: round3(sim),
					Snippet:    snippet(p.Abstract, r.SnippetChars),
				})
			}
		}
	}
	return rn.out
}
