package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"

	"catalogsync/internal/config"
	"catalogsync/internal/extract"
	"catalogsync/internal/model"
	"catalogsync/internal/reconcile"
	"catalogsync/internal/suggest"
)

// Pacer spaces out fetches; *crawler.Pacer satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
	Backoff(ctx context.Context) error
}

type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Inserted   int `json:"inserted"`
}

func (s *Summary) add(o *Outcome) {
	s.Total++
	if o.Success {
		s.Successful++
	}
	if o.Inserted() {
		s.Inserted++
	}
}

type MaterialReport struct {
	Name           string               `json:"name"`
	Specifications config.MaterialSpecs `json:"specifications"`
	Suppliers      []*Outcome           `json:"suppliers"`
	Summary        Summary              `json:"summary"`
}

type BatchReport struct {
	Processed  int                        `json:"processed"`
	Successful int                        `json:"successful"`
	Failed     int                        `json:"failed"`
	Inserted   int                        `json:"inserted"`
	Materials  map[string]*MaterialReport `json:"materials"`
	Details    []*Outcome                 `json:"details"`
}

func (r *BatchReport) add(o *Outcome) {
	r.Details = append(r.Details, o)
	r.Processed++
	if !o.Success {
		r.Failed++
		return
	}
	r.Successful++
	if o.Inserted() {
		r.Inserted++
	}
}

// BatchRunner processes every page named in a batch file, pacing requests.
type BatchRunner struct {
	processor *Processor
	pacer     Pacer
}

func NewBatchRunner(processor *Processor, pacer Pacer) *BatchRunner {
	return &BatchRunner{processor: processor, pacer: pacer}
}

// Run processes materials, then individual products, then categories.
// It stops early only when ctx is cancelled.
func (b *BatchRunner) Run(ctx context.Context, batch *config.Batch) (*BatchReport, error) {
	report := &BatchReport{Materials: map[string]*MaterialReport{}}
	log := b.processor.logger

	for _, key := range batch.MaterialKeys() {
		m := batch.Materials[key]
		log.Info().Str("material", key).Int("suppliers", len(m.Suppliers)).Msg("processing material")
		mr, err := b.material(ctx, m)
		report.Materials[key] = mr
		for _, o := range mr.Suppliers {
			report.add(o)
		}
		if err != nil {
			return report, err
		}
	}

	for _, p := range batch.Products {
		o, err := b.product(ctx, p.URL, p.ExpectedType, batch.ShouldInsert(p))
		if err != nil {
			return report, err
		}
		report.add(o)
	}

	for _, name := range batch.CategoryNames() {
		c := batch.Categories[name]
		log.Info().Str("category", name).Str("default_type", c.DefaultType).Msg("processing category")
		for _, u := range c.URLs {
			o, err := b.product(ctx, u, c.DefaultType, c.AutoInsert)
			if err != nil {
				return report, err
			}
			report.add(o)
		}
	}
	return report, nil
}

// product processes one page. Invalid entries become failed outcomes so
// one bad line does not stop the batch.
func (b *BatchRunner) product(ctx context.Context, rawURL, expectedType string, insert bool) (*Outcome, error) {
	if err := b.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	expected, err := ParseExpectedType(expectedType)
	if err != nil {
		return &Outcome{URL: rawURL, Err: err}, nil
	}
	o, err := b.processor.ProcessProduct(ctx, rawURL, expected, insert)
	if err != nil {
		return &Outcome{URL: rawURL, Err: err}, nil
	}
	return o, b.afterFailure(ctx, o.Err)
}

// material links every supplier page to one shared entry. The first
// supplier whose page reconciles creates or finds the entry.
func (b *BatchRunner) material(ctx context.Context, m config.BatchMaterial) (*MaterialReport, error) {
	mr := &MaterialReport{Name: m.Name, Specifications: m.Specifications}
	spec := &reconcile.MaterialSpec{
		Name:         m.Name,
		MaterialType: m.Specifications.MaterialType,
		Thickness:    m.Specifications.Thickness,
	}

	var shared *model.CatalogEntry
	for _, s := range m.Suppliers {
		if err := b.pacer.Wait(ctx); err != nil {
			return mr, err
		}

		o := &Outcome{URL: s.URL}
		mr.Suppliers = append(mr.Suppliers, o)

		expected := model.TypeMaterial
		if s.ExpectedType != "" {
			t, err := ParseExpectedType(s.ExpectedType)
			if err != nil {
				o.Err = err
				mr.Summary.add(o)
				continue
			}
			expected = t
		}

		r, err := b.processor.Extract(ctx, s.URL, expected)
		if err != nil {
			o.Err = err
			mr.Summary.add(o)
			if err := b.afterFailure(ctx, err); err != nil {
				return mr, err
			}
			continue
		}

		o.Success = true
		o.Record = r
		sg := suggest.Suggest(r)
		o.Suggestions = &sg
		o.Reconciliation = b.processor.reconcile(ctx, reconcile.Request{
			Record:      r,
			Suggestions: sg,
			Kind:        model.KindMaterial,
			Spec:        spec,
			Entry:       shared,
		})
		if shared == nil && o.Reconciliation.Entry != nil {
			shared = o.Reconciliation.Entry
		}
		mr.Summary.add(o)
	}
	return mr, nil
}

// afterFailure backs off after a bot block and surfaces cancellation.
func (b *BatchRunner) afterFailure(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, extract.ErrBotBlocked) {
		b.processor.logger.Warn().Msg("bot protection page; backing off")
		return b.pacer.Backoff(ctx)
	}
	return nil
}

// WriteReport saves the report as batch-results-<timestamp>.json in dir.
func WriteReport(dir string, report *BatchReport, now time.Time) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("batch-results-%s.json", now.UTC().Format("2006-01-02T15-04-05Z"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// PrintSummary writes the end-of-run totals.
func PrintSummary(w io.Writer, report *BatchReport) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	bold.Fprintln(w, "BATCH PROCESSING SUMMARY")
	fmt.Fprintf(w, "Total processed: %d\n", report.Processed)
	green.Fprintf(w, "Successful extractions: %d\n", report.Successful)
	if report.Failed > 0 {
		red.Fprintf(w, "Failed extractions: %d\n", report.Failed)
	} else {
		fmt.Fprintf(w, "Failed extractions: %d\n", report.Failed)
	}
	fmt.Fprintf(w, "Successfully inserted: %d\n", report.Inserted)
	if report.Processed > 0 {
		fmt.Fprintf(w, "Success rate: %.1f%%\n", float64(report.Successful)/float64(report.Processed)*100)
	}

	if len(report.Materials) == 0 {
		return
	}
	bold.Fprintln(w, "MATERIALS SUMMARY")
	for _, key := range sortedKeys(report.Materials) {
		m := report.Materials[key]
		fmt.Fprintf(w, "  %s: %d/%d suppliers successful\n", key, m.Summary.Successful, m.Summary.Total)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
