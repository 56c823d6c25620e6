package extract

import (
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page is one fetched document. The goquery tree is built on first use.
type Page struct {
	URL    string
	Markup string

	once sync.Once
	doc  *goquery.Document
}

func NewPage(url, markup string) *Page {
	return &Page{URL: url, Markup: markup}
}

// Doc returns nil when the markup could not be parsed.
func (p *Page) Doc() *goquery.Document {
	p.once.Do(func() {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.Markup))
		if err == nil {
			p.doc = doc
		}
	})
	return p.doc
}

// TextPattern yields one candidate value from a page.
type TextPattern func(p *Page) (string, bool)

// Regex matches expr against the raw markup and returns the given group of
// the first match.
func Regex(expr string, group int) TextPattern {
	re := regexp.MustCompile(expr)
	return func(p *Page) (string, bool) {
		m := re.FindStringSubmatch(p.Markup)
		if len(m) <= group || m[group] == "" {
			return "", false
		}
		return m[group], true
	}
}

// Selector returns the text of the first element matching sel.
func Selector(sel string) TextPattern {
	return func(p *Page) (string, bool) {
		doc := p.Doc()
		if doc == nil {
			return "", false
		}
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			return "", false
		}
		return s.Text(), true
	}
}

// SelectorAttr returns attr of the first element matching sel.
func SelectorAttr(sel, attr string) TextPattern {
	return func(p *Page) (string, bool) {
		doc := p.Doc()
		if doc == nil {
			return "", false
		}
		return doc.Find(sel).First().Attr(attr)
	}
}

// ListPattern yields every candidate value from a page, in document order.
type ListPattern func(p *Page) []string

// SelectorAttrAll returns attr of every element matching sel that has it.
func SelectorAttrAll(sel, attr string) ListPattern {
	return func(p *Page) []string {
		doc := p.Doc()
		if doc == nil {
			return nil
		}
		var out []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if v, ok := s.Attr(attr); ok {
				out = append(out, v)
			}
		})
		return out
	}
}

// First runs patterns in order and returns the first whitespace-collapsed,
// non-empty candidate that accept allows. accept may be nil.
func First(p *Page, patterns []TextPattern, accept func(string) bool) (string, bool) {
	for _, pattern := range patterns {
		v, ok := pattern(p)
		if !ok {
			continue
		}
		v = collapseSpace(v)
		if v == "" {
			continue
		}
		if accept != nil && !accept(v) {
			continue
		}
		return v, true
	}
	return "", false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
