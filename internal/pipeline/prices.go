package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"

	"catalogsync/internal/extract"
	"catalogsync/internal/model"
	"catalogsync/internal/normalize"
	"catalogsync/internal/reconcile"
)

// RelationshipLister lists every supplier relationship to re-check.
type RelationshipLister interface {
	ListSupplierRelationships(ctx context.Context) ([]model.SupplierRelationship, error)
}

type PriceChange struct {
	RelationshipID string   `json:"relationship_id"`
	EntryID        string   `json:"entry_id"`
	EntryKind      string   `json:"entry_kind"`
	SupplierID     string   `json:"supplier_id"`
	Link           string   `json:"link"`
	OldPrice       float64  `json:"old_price"`
	NewPrice       float64  `json:"new_price"`
	PercentChange  float64  `json:"percent_change"`
	IsOnSale       bool     `json:"is_on_sale"`
	OriginalPrice  *float64 `json:"original_price,omitempty"`
	Recorded       bool     `json:"recorded"`
}

type PriceReport struct {
	Checked   int           `json:"checked"`
	Unchanged int           `json:"unchanged"`
	NoPrice   int           `json:"no_price"`
	Failed    int           `json:"failed"`
	Changes   []PriceChange `json:"changes"`
}

// PriceUpdater revisits stored supplier links and records price changes.
type PriceUpdater struct {
	processor *Processor
	lister    RelationshipLister
	pacer     Pacer
	dryRun    bool
}

func NewPriceUpdater(processor *Processor, lister RelationshipLister, pacer Pacer, dryRun bool) *PriceUpdater {
	return &PriceUpdater{processor: processor, lister: lister, pacer: pacer, dryRun: dryRun}
}

// Run checks each relationship once. In dry-run mode nothing is written.
func (u *PriceUpdater) Run(ctx context.Context) (*PriceReport, error) {
	rels, err := u.lister.ListSupplierRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list supplier relationships: %w", err)
	}
	log := u.processor.logger

	report := &PriceReport{}
	for i := range rels {
		rel := rels[i]
		if rel.Link == "" {
			continue
		}
		if err := u.pacer.Wait(ctx); err != nil {
			return report, err
		}
		report.Checked++

		r, err := u.processor.Extract(ctx, rel.Link, productType(rel.EntryKind))
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed++
			log.Warn().Err(err).Str("relationship", rel.ID).Str("url", rel.Link).Msg("price check failed")
			if errors.Is(err, extract.ErrBotBlocked) {
				if err := u.pacer.Backoff(ctx); err != nil {
					return report, err
				}
			}
			continue
		}
		if r.Price == nil {
			report.NoPrice++
			log.Info().Str("relationship", rel.ID).Msg("no price fetched")
			continue
		}

		newPrice := *r.Price
		if math.Abs(newPrice-rel.Price) <= reconcile.PriceTolerance {
			report.Unchanged++
			continue
		}

		change := PriceChange{
			RelationshipID: rel.ID,
			EntryID:        rel.EntryID,
			EntryKind:      string(rel.EntryKind),
			SupplierID:     rel.SupplierID,
			Link:           rel.Link,
			OldPrice:       rel.Price,
			NewPrice:       newPrice,
			PercentChange:  percentChange(rel.Price, newPrice),
		}
		if r.OriginalPrice != nil && *r.OriginalPrice > newPrice {
			change.IsOnSale = true
			change.OriginalPrice = r.OriginalPrice
		}

		if !u.dryRun {
			out, err := u.processor.engine.UpdatePrice(ctx, &rel, r, updateNote(change))
			if err != nil {
				report.Failed++
				log.Error().Err(err).Str("relationship", rel.ID).Msg("price history not recorded")
				continue
			}
			change.Recorded = !out.Skipped
		}
		report.Changes = append(report.Changes, change)
		log.Info().
			Bool("dry_run", u.dryRun).
			Str("relationship", rel.ID).
			Float64("old", change.OldPrice).
			Float64("new", change.NewPrice).
			Msg("price changed")
	}
	return report, nil
}

func productType(k model.CatalogKind) model.ProductType {
	switch k {
	case model.KindPart:
		return model.TypePart
	case model.KindMaterial:
		return model.TypeMaterial
	}
	return ""
}

// percentChange is relative to the old price, or to 1 when there was none.
func percentChange(oldPrice, newPrice float64) float64 {
	base := oldPrice
	if base == 0 {
		base = 1
	}
	return (newPrice - oldPrice) / base * 100
}

func updateNote(c PriceChange) string {
	sign := ""
	if c.PercentChange > 0 {
		sign = "+"
	}
	note := fmt.Sprintf("Automated update: %s%s%%", sign, normalize.Fixed(c.PercentChange, 2))
	if c.IsOnSale && c.OriginalPrice != nil {
		orig := *c.OriginalPrice
		discount := (orig - c.NewPrice) / orig * 100
		note += fmt.Sprintf(" - ON SALE (%s%% off from $%s)", normalize.Fixed(discount, 1), normalize.Plain(orig))
	}
	return note
}

// PrintPriceReport writes the changes found by a run.
func PrintPriceReport(w io.Writer, report *PriceReport, dryRun bool) {
	bold := color.New(color.Bold)
	sale := color.New(color.FgRed)

	mode := "LIVE UPDATE"
	if dryRun {
		mode = "DRY RUN"
	}
	bold.Fprintf(w, "Price update (%s)\n", mode)
	fmt.Fprintf(w, "%d prices changed out of %d checked (%d unchanged, %d without price, %d failed)\n",
		len(report.Changes), report.Checked, report.Unchanged, report.NoPrice, report.Failed)
	for _, c := range report.Changes {
		fmt.Fprintf(w, "  • %s %s: $%s → $%s (%s%%)", c.EntryKind, c.EntryID,
			normalize.Plain(c.OldPrice), normalize.Plain(c.NewPrice), normalize.Fixed(c.PercentChange, 2))
		if c.IsOnSale && c.OriginalPrice != nil {
			sale.Fprintf(w, " ON SALE (was $%s)", normalize.Plain(*c.OriginalPrice))
		}
		fmt.Fprintln(w)
	}
}
