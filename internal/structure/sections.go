package structure

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section is a named span of document text.
type Section struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

const (
	FrontName = "Front"

	frontMinOffset   = 50
	maxParagraphs    = 8
	minParagraphChar = 100
)

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\babstract\b`),
	regexp.MustCompile(`\bintroduction\b`),
	regexp.MustCompile(`\bbackground\b`),
	regexp.MustCompile(`\bmaterials and methods\b`),
	regexp.MustCompile(`\bmethodology\b`),
	regexp.MustCompile(`\bmethods\b`),
	regexp.MustCompile(`\bresults\b`),
	regexp.MustCompile(`\bdiscussion\b`),
	regexp.MustCompile(`\bconclusion\b`),
	regexp.MustCompile(`\breferences\b`),
	regexp.MustCompile(`\backnowledge?ments\b`),
}

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

var titleCaser = cases.Title(language.English)

type heading struct {
	offset int
	label  string
}

// Sectionize splits text into sections at academic headings. When no heading
// is present it falls back to the first long paragraphs. Empty text yields no
// sections.
func Sectionize(text string) []Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	spans := findHeadings(text)
	if len(spans) == 0 {
		return paragraphSections(text)
	}

	sections := make([]Section, 0, len(spans)+1)
	for i, h := range spans {
		end := len(text)
		if i+1 < len(spans) {
			end = spans[i+1].offset
		}
		sections = append(sections, Section{
			Name: titleCaser.String(strings.TrimSpace(h.label)),
			Text: strings.TrimSpace(text[h.offset:end]),
		})
	}

	if spans[0].offset > frontMinOffset {
		if front := strings.TrimSpace(text[:spans[0].offset]); front != "" {
			sections = append([]Section{{Name: FrontName, Text: front}}, sections...)
		}
	}
	return sections
}

// findHeadings matches against a lowercased copy. ASCII lowering keeps byte
// offsets aligned with the original text.
func findHeadings(text string) []heading {
	low := asciiLower(text)
	var spans []heading
	for _, re := range headingPatterns {
		for _, m := range re.FindAllStringIndex(low, -1) {
			spans = append(spans, heading{offset: m[0], label: low[m[0]:m[1]]})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].offset != spans[j].offset {
			return spans[i].offset < spans[j].offset
		}
		return spans[i].label < spans[j].label
	})
	return spans
}

func paragraphSections(text string) []Section {
	var out []Section
	for _, p := range paragraphBreak.Split(text, -1) {
		p = strings.TrimSpace(p)
		if len(p) <= minParagraphChar {
			continue
		}
		out = append(out, Section{Name: "Section_" + strconv.Itoa(len(out)+1), Text: p})
		if len(out) == maxParagraphs {
			break
		}
	}
	return out
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
