package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var cdataPattern = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)

// CleanText unwraps CDATA sections, decodes HTML entities, strips any
// remaining markup, and trims whitespace, leaving plain text.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = cdataPattern.ReplaceAllString(s, "$1")
	s = html.UnescapeString(s)
	s = stripTags(s)
	return strings.TrimSpace(s)
}

func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}
