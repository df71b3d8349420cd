package scan

import (
	"regexp"
	"strings"
)

var doiPattern = regexp.MustCompile(`\b10\.\d{4,9}/\S+\b`)

// FirstDOI returns the first DOI-shaped token in text, or "".
func FirstDOI(text string) string {
	return strings.TrimRight(doiPattern.FindString(text), ".,;")
}
