package scan

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	minPartChars = 100
	minBodyChars = 200
)

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	contentClass = []string{"content", "main", "post", "article", "story", "body"}
	contentIDs   = []string{"content", "main", "article"}
	boilerplate  = map[atom.Atom]bool{
		atom.Script: true,
		atom.Style:  true,
		atom.Nav:    true,
		atom.Header: true,
		atom.Footer: true,
		atom.Aside:  true,
		atom.Form:   true,
	}
)

// contentMatcher reports whether an element looks like main page content.
type contentMatcher func(n *html.Node) bool

// contentMatchers is ordered by priority.
var contentMatchers = buildMatchers()

func buildMatchers() []contentMatcher {
	ms := []contentMatcher{
		func(n *html.Node) bool { return n.DataAtom == atom.Article },
		func(n *html.Node) bool { return n.DataAtom == atom.Main },
	}
	for _, c := range contentClass {
		ms = append(ms, func(n *html.Node) bool { return strings.Contains(attr(n, "class"), c) })
	}
	for _, id := range contentIDs {
		ms = append(ms, func(n *html.Node) bool { return attr(n, "id") == id })
	}
	return ms
}

// extractContent returns the page title and its main text with
// boilerplate elements removed and whitespace collapsed.
func extractContent(doc *html.Node) (title, content string) {
	if t := find(doc, func(n *html.Node) bool { return n.DataAtom == atom.Title }); t != nil {
		title = strings.TrimSpace(nodeText(t))
	}
	strip(doc)

	var parts []string
	taken := map[*html.Node]bool{}
	for _, match := range contentMatchers {
		walk(doc, func(n *html.Node) {
			if n.Type != html.ElementNode || taken[n] || !match(n) {
				return
			}
			if text := nodeText(n); len(text) > minPartChars {
				taken[n] = true
				parts = append(parts, text)
			}
		})
	}

	if len(parts) == 0 {
		if body := find(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body }); body != nil {
			if text := nodeText(body); len(text) > minBodyChars {
				parts = append(parts, text)
			}
		}
	}

	content = strings.TrimSpace(spaceRun.ReplaceAllString(strings.Join(parts, " "), " "))
	return title, content
}

// htmlText returns the visible text of an HTML fragment, used for
// abstracts that arrive with inline markup.
func htmlText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"})
	if err != nil {
		return strings.TrimSpace(s)
	}
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := nodeText(n); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}

func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && boilerplate[c.DataAtom] {
			n.RemoveChild(c)
		} else {
			strip(c)
		}
		c = next
	}
}

// nodeText joins the trimmed text nodes under n with single spaces.
func nodeText(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) {
		if c.Type != html.TextNode {
			return
		}
		if t := strings.TrimSpace(c.Data); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
