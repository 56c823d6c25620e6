package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageText returns the visible headings, paragraphs and list items of a
// page, one per line.
func PageText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}

	var content []string
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			content = append(content, text)
		}
	})

	return strings.Join(content, "\n"), nil
}
