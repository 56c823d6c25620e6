package reconcile

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"catalogsync/internal/model"
	"catalogsync/internal/observability"
)

const (
	// PriceTolerance is the largest difference still treated as the same price.
	PriceTolerance = 0.01

	ReasonSamePrice = "Same price already recorded today"
	ReasonSameStock = "Same stock level already recorded today"

	notePriceRecorded = "Auto-recorded from product extraction"
	notePriceMissing  = "Initial record - no price found during extraction"
	noteSaleByName    = " - Potential sale detected from product name"
	noteStockInitial  = "Initial stock level set to 0 (batch processed)"
	noteStockRecorded = "Stock level recorded from product extraction"
)

var saleWords = []string{"sale", "discount", "clearance", "reduced"}

// RecordPrice appends a price observation unless today's latest record for
// the same entry and supplier already has this price.
func (e *Engine) RecordPrice(ctx context.Context, rel *model.SupplierRelationship, r *model.ProductRecord) (*HistoryOutcome, error) {
	return e.recordPrice(ctx, rel, r, "")
}

func (e *Engine) recordPrice(ctx context.Context, rel *model.SupplierRelationship, r *model.ProductRecord, note string) (*HistoryOutcome, error) {
	price := r.PriceOrZero()
	now := e.now().UTC()

	latest, err := e.latestToday(ctx, model.HistoryPrice, rel, now)
	if err != nil {
		return nil, err
	}
	if latest != nil && samePrice(latest.Price, price) {
		observability.HistoryRecords.WithLabelValues(string(model.HistoryPrice), "skipped").Inc()
		return &HistoryOutcome{Record: latest, Skipped: true, Reason: ReasonSamePrice}, nil
	}

	rec := model.HistoryRecord{
		Kind:         model.HistoryPrice,
		EntryKind:    rel.EntryKind,
		EntryID:      rel.EntryID,
		SupplierID:   rel.SupplierID,
		Price:        price,
		RecordedAt:   now,
		Note:         notePriceRecorded,
		LeadTimeDays: r.LeadTimeDays,
	}
	switch {
	case price == 0:
		rec.Note = notePriceMissing
	case note != "":
		rec.Note = note
	}
	markSale(&rec, r)

	inserted, err := e.store.InsertHistory(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("insert price history: %w", err)
	}
	observability.HistoryRecords.WithLabelValues(string(model.HistoryPrice), "inserted").Inc()
	return &HistoryOutcome{Record: inserted}, nil
}

// RecordStock appends a stock observation unless today's latest record
// already has exactly this level.
func (e *Engine) RecordStock(ctx context.Context, rel *model.SupplierRelationship, level int, price float64) (*HistoryOutcome, error) {
	now := e.now().UTC()

	latest, err := e.latestToday(ctx, model.HistoryStock, rel, now)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.StockLevel == level {
		observability.HistoryRecords.WithLabelValues(string(model.HistoryStock), "skipped").Inc()
		return &HistoryOutcome{Record: latest, Skipped: true, Reason: ReasonSameStock}, nil
	}

	note := noteStockRecorded
	if level == 0 {
		note = noteStockInitial
	}
	inserted, err := e.store.InsertHistory(ctx, model.HistoryRecord{
		Kind:       model.HistoryStock,
		EntryKind:  rel.EntryKind,
		EntryID:    rel.EntryID,
		SupplierID: rel.SupplierID,
		Price:      price,
		StockLevel: level,
		RecordedAt: now,
		Note:       note,
	})
	if err != nil {
		return nil, fmt.Errorf("insert stock history: %w", err)
	}
	observability.HistoryRecords.WithLabelValues(string(model.HistoryStock), "inserted").Inc()
	return &HistoryOutcome{Record: inserted}, nil
}

func (e *Engine) latestToday(ctx context.Context, kind model.HistoryKind, rel *model.SupplierRelationship, now time.Time) (*model.HistoryRecord, error) {
	from := DayStart(now)
	recs, err := e.store.FindHistoryForDay(ctx, kind, rel.EntryID, rel.SupplierID, from, from.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("look up today's %s history: %w", kind, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func samePrice(a, b float64) bool {
	return math.Abs(a-b) <= PriceTolerance+1e-9
}

// markSale flags a price below the page's list price, or a name that
// advertises a sale.
func markSale(rec *model.HistoryRecord, r *model.ProductRecord) {
	if r.OriginalPrice != nil && rec.Price > 0 && *r.OriginalPrice > rec.Price {
		orig := *r.OriginalPrice
		discount := math.Round((orig-rec.Price)/orig*100*100) / 100
		rec.IsOnSale = true
		rec.OriginalPrice = &orig
		rec.DiscountPercentage = &discount
		return
	}
	name := strings.ToLower(r.Name)
	for _, w := range saleWords {
		if strings.Contains(name, w) {
			rec.IsOnSale = true
			rec.Note += noteSaleByName
			return
		}
	}
}
