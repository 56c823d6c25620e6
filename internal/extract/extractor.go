// Package extract pulls product attributes out of supplier page markup
// with ordered, first-match-wins pattern cascades.
package extract

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"catalogsync/internal/classify"
	"catalogsync/internal/model"
	"catalogsync/internal/normalize"
)

// Classifier scores a record; *classify.Classifier satisfies it.
type Classifier interface {
	Classify(r *model.ProductRecord, expected model.ProductType) classify.Result
}

type Extractor struct {
	tables     Tables
	classifier Classifier
	now        func() time.Time
}

func New(tables Tables, classifier Classifier) *Extractor {
	return &Extractor{tables: tables, classifier: classifier, now: time.Now}
}

// step fills one attribute of the record from the page.
type step func(x *Extractor, p *Page, r *model.ProductRecord)

var steps = []step{
	(*Extractor).name,
	(*Extractor).description,
	(*Extractor).price,
	(*Extractor).originalPrice,
	(*Extractor).brand,
	(*Extractor).sku,
	(*Extractor).dims,
	(*Extractor).materialType,
	(*Extractor).availability,
	(*Extractor).leadTime,
	(*Extractor).images,
}

// Extract builds a ProductRecord from markup. Missing attributes are left
// empty; the only error besides cancellation is a *BotBlockError.
func (x *Extractor) Extract(ctx context.Context, url, markup string, expected model.ProductType) (*model.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if phrase, blocked := x.botPhrase(markup); blocked {
		return nil, &BotBlockError{URL: url, Phrase: phrase}
	}

	page := NewPage(url, markup)
	r := &model.ProductRecord{URL: url, Images: []string{}}
	for _, s := range steps {
		s(x, page, r)
	}

	// classification sees the text before cleanup strips quotes and ×
	res := x.classifier.Classify(r, expected)
	r.SuggestedType = res.Type
	r.Confidence = res.Confidence
	r.Reasons = res.Reasons

	r.Name = cleanName(r.Name)
	r.Description = cleanDescription(r.Description, x.tables.DescriptionLimit)
	r.ExtractedAt = x.now().UTC()
	return r, nil
}

func (x *Extractor) botPhrase(markup string) (string, bool) {
	lower := strings.ToLower(markup)
	for _, phrase := range x.tables.BotPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return phrase, true
		}
	}
	return "", false
}

func (x *Extractor) name(p *Page, r *model.ProductRecord) {
	r.Name, _ = First(p, x.tables.Name, nil)
}

func (x *Extractor) description(p *Page, r *model.ProductRecord) {
	r.Description, _ = First(p, x.tables.Description, nil)
}

func (x *Extractor) price(p *Page, r *model.ProductRecord) {
	for _, re := range x.tables.Prices {
		for _, m := range re.FindAllStringSubmatch(p.Markup, -1) {
			v, ok := normalize.ParseNumber(m[1])
			if !ok || v <= 0 {
				continue
			}
			r.Price = &v
			r.Currency = x.currency(m[0])
			return
		}
	}
}

// currency maps the first symbol in the matched text; no symbol, no currency.
func (x *Extractor) currency(match string) string {
	for _, c := range match {
		switch c {
		case '$', '£', '€', '¥':
			if code, ok := x.tables.CurrencySymbols[string(c)]; ok {
				return code
			}
			return x.tables.DefaultCurrency
		}
	}
	return ""
}

func (x *Extractor) originalPrice(p *Page, r *model.ProductRecord) {
	for _, pattern := range x.tables.OriginalPrices {
		s, ok := pattern(p)
		if !ok {
			continue
		}
		if v, ok := normalize.ParseNumber(s); ok && v > 0 {
			r.OriginalPrice = &v
			return
		}
	}
}

func (x *Extractor) brand(p *Page, r *model.ProductRecord) {
	r.Brand, _ = First(p, x.tables.Brand, x.acceptBrand)
}

func (x *Extractor) acceptBrand(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < x.tables.BrandMinLen || n > x.tables.BrandMaxLen {
		return false
	}
	lower := strings.ToLower(s)
	return !slices.ContainsFunc(x.tables.BrandDenylist, func(bad string) bool {
		return strings.Contains(lower, bad)
	})
}

func (x *Extractor) sku(p *Page, r *model.ProductRecord) {
	r.SKU, _ = First(p, x.tables.SKU, nil)
}

func (x *Extractor) dims(p *Page, r *model.ProductRecord) {
	r.Dimensions = x.dimensions(r.Name, p.Markup)
}

func (x *Extractor) materialType(p *Page, r *model.ProductRecord) {
	r.MaterialType, _ = First(p, x.tables.Material, func(s string) bool { return len(s) >= 2 })
}

func (x *Extractor) availability(p *Page, r *model.ProductRecord) {
	r.Availability, _ = First(p, x.tables.Availability, nil)
}

func (x *Extractor) leadTime(p *Page, r *model.ProductRecord) {
	for _, re := range x.tables.LeadTime {
		for _, m := range re.FindAllStringSubmatch(p.Markup, -1) {
			days := 0
			for _, g := range m[1:] {
				if n, err := strconv.Atoi(g); err == nil && n > days {
					days = n
				}
			}
			if days >= x.tables.MinLeadTime && days <= x.tables.MaxLeadTime {
				r.LeadTimeDays = &days
				return
			}
		}
	}
}

func (x *Extractor) images(p *Page, r *model.ProductRecord) {
	add := func(src string) {
		src = strings.TrimSpace(src)
		if src != "" && !slices.Contains(r.Images, src) {
			r.Images = append(r.Images, src)
		}
	}
	for _, m := range x.tables.ProductImage.FindAllStringSubmatch(p.Markup, -1) {
		add(m[1])
	}
	if x.tables.ImageMeta != nil {
		for _, src := range x.tables.ImageMeta(p) {
			add(src)
		}
	}
}
