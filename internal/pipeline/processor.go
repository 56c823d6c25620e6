// Package pipeline drives product pages through fetch, extraction,
// suggestion and reconciliation, one page or a whole batch at a time.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"catalogsync/internal/advisor"
	"catalogsync/internal/crawler"
	"catalogsync/internal/extract"
	"catalogsync/internal/model"
	"catalogsync/internal/observability"
	"catalogsync/internal/reconcile"
	"catalogsync/internal/suggest"
)

var (
	ErrInvalidURL  = errors.New("product url must be an absolute http(s) url")
	ErrInvalidType = errors.New(`expected type must be "part", "material" or empty`)
)

// Advisor is an optional second opinion for pages the heuristics leave
// unclassified.
type Advisor interface {
	Advise(ctx context.Context, r *model.ProductRecord, pageText string) (advisor.Suggestion, error)
}

type Processor struct {
	fetcher   crawler.Fetcher
	extractor *extract.Extractor
	engine    *reconcile.Engine
	advisor   Advisor
	logger    zerolog.Logger
}

type Option func(*Processor)

func WithAdvisor(a Advisor) Option {
	return func(p *Processor) { p.advisor = a }
}

func NewProcessor(fetcher crawler.Fetcher, extractor *extract.Extractor, engine *reconcile.Engine, logger zerolog.Logger, opts ...Option) *Processor {
	p := &Processor{
		fetcher:   fetcher,
		extractor: extractor,
		engine:    engine,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Outcome is the result of processing one product page. Err holds an
// expected failure (fetch, bot block); Reconciliation is set only when
// persistence was requested.
type Outcome struct {
	URL            string
	Success        bool
	Record         *model.ProductRecord
	Suggestions    *suggest.Suggestions
	Reconciliation *reconcile.Result
	Err            error
}

// Inserted reports whether every reconciliation step succeeded.
func (o *Outcome) Inserted() bool {
	return o.Reconciliation != nil && len(o.Reconciliation.Errors) == 0
}

func (o *Outcome) MarshalJSON() ([]byte, error) {
	type reconciliation struct {
		*reconcile.Result
		Errors []string `json:"errors,omitempty"`
	}
	out := struct {
		URL            string               `json:"url"`
		Success        bool                 `json:"success"`
		Record         *model.ProductRecord `json:"data,omitempty"`
		Suggestions    *suggest.Suggestions `json:"suggestions,omitempty"`
		Reconciliation *reconciliation      `json:"insert_result,omitempty"`
		Error          string               `json:"error,omitempty"`
	}{
		URL:         o.URL,
		Success:     o.Success,
		Record:      o.Record,
		Suggestions: o.Suggestions,
	}
	if o.Reconciliation != nil {
		out.Reconciliation = &reconciliation{Result: o.Reconciliation, Errors: o.Reconciliation.ErrorMessages()}
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

// ParseExpectedType validates a caller supplied type hint.
func ParseExpectedType(s string) (model.ProductType, error) {
	t, ok := model.ParseProductType(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

// Extract fetches and extracts one page without touching the store.
func (p *Processor) Extract(ctx context.Context, rawURL string, expected model.ProductType) (*model.ProductRecord, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	if _, ok := model.ParseProductType(string(expected)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, expected)
	}

	resp, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		observability.ExtractionFailures.WithLabelValues("fetch").Inc()
		return nil, err
	}

	r, err := p.extractor.Extract(ctx, rawURL, resp.Body, expected)
	if err != nil {
		if errors.Is(err, extract.ErrBotBlocked) {
			observability.ExtractionFailures.WithLabelValues("bot_block").Inc()
		}
		return nil, err
	}

	if r.SuggestedType == model.TypeUnknown && expected == "" && p.advisor != nil {
		r = p.advise(ctx, rawURL, resp.Body, r)
	}
	return r, nil
}

// advise re-runs extraction with the advisor's answer as the type hint.
// Advisor failures leave the record as it was.
func (p *Processor) advise(ctx context.Context, rawURL, markup string, r *model.ProductRecord) *model.ProductRecord {
	text, err := crawler.PageText(markup)
	if err != nil {
		p.logger.Debug().Err(err).Str("url", rawURL).Msg("page text unavailable")
	}
	s, err := p.advisor.Advise(ctx, r, text)
	if err != nil {
		p.logger.Warn().Err(err).Str("url", rawURL).Msg("advisor unavailable")
		return r
	}
	if s.Type == model.TypeUnknown {
		return r
	}

	hinted, err := p.extractor.Extract(ctx, rawURL, markup, s.Type)
	if err != nil {
		return r
	}
	hinted.Reasons = append(hinted.Reasons, fmt.Sprintf("Model suggestion: %s (%s)", s.Type, s.Reason))
	return hinted
}

// ProcessProduct extracts a page and, when persist is set, reconciles it
// into the catalog. The error return is reserved for invalid arguments.
func (p *Processor) ProcessProduct(ctx context.Context, rawURL string, expected model.ProductType, persist bool) (*Outcome, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	if _, ok := model.ParseProductType(string(expected)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, expected)
	}

	out := &Outcome{URL: rawURL}
	r, err := p.Extract(ctx, rawURL, expected)
	if err != nil {
		out.Err = err
		observability.ProductsProcessed.WithLabelValues(failureLabel(err)).Inc()
		p.logger.Warn().Err(err).Str("url", rawURL).Msg("extraction failed")
		return out, nil
	}

	out.Success = true
	out.Record = r
	s := suggest.Suggest(r)
	out.Suggestions = &s
	p.logger.Info().
		Str("url", rawURL).
		Str("name", r.Name).
		Str("type", string(r.SuggestedType)).
		Int("confidence", r.Confidence).
		Msg("extracted product")

	// the classifier already weighed the caller's hint; its verdict picks
	// the table
	if persist {
		out.Reconciliation = p.reconcile(ctx, reconcile.Request{
			Record:      r,
			Suggestions: s,
		})
	}
	observability.ProductsProcessed.WithLabelValues("success").Inc()
	return out, nil
}

func (p *Processor) reconcile(ctx context.Context, req reconcile.Request) *reconcile.Result {
	res := p.engine.Reconcile(ctx, req)
	for _, e := range res.Errors {
		p.logger.Warn().Err(e.Err).Str("step", string(e.Step)).Str("url", req.Record.URL).Msg("reconciliation step failed")
	}
	return res
}

func failureLabel(err error) string {
	var fe *crawler.FetchError
	switch {
	case errors.As(err, &fe):
		return "fetch_failed"
	case errors.Is(err, extract.ErrBotBlocked):
		return "bot_blocked"
	}
	return "failed"
}
