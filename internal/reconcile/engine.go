// Package reconcile writes extracted products into the catalog without
// duplicating suppliers, entries, relationships or same-day history.
package reconcile

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"catalogsync/internal/model"
	"catalogsync/internal/normalize"
	"catalogsync/internal/suggest"
)

const (
	// MaterialTolerance is the largest primary-dimension difference, in
	// millimeters, for two materials to be the same stock.
	MaterialTolerance = 1.0
	CandidateLimit    = 10
	DefaultMOQ        = 1

	SupplierNote = "Auto-created by product extractor"
)

// MaterialSpec is what a batch file declares about a material.
type MaterialSpec struct {
	Name         string
	MaterialType string
	Thickness    string
}

// Request is one record to reconcile. Kind overrides the record's
// suggested type and is required when that type is unknown. A non-nil
// Entry skips the find-or-create step.
type Request struct {
	Record      *model.ProductRecord
	Suggestions suggest.Suggestions
	Kind        model.CatalogKind
	Spec        *MaterialSpec
	Entry       *model.CatalogEntry
}

type Engine struct {
	store    Store
	resolver Resolver
	logger   zerolog.Logger
	now      func() time.Time
}

func NewEngine(store Store, resolver Resolver, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		resolver: resolver,
		logger:   logger.With().Str("component", "reconcile").Logger(),
		now:      time.Now,
	}
}

// Reconcile runs supplier, entry, relationship and history steps in order.
// A failing step is recorded and only the steps that need its output are
// skipped.
func (e *Engine) Reconcile(ctx context.Context, req Request) *Result {
	res := &Result{}
	r := req.Record

	kind := req.Kind
	if kind == "" {
		kind = kindOf(r.SuggestedType)
	}
	if kind == "" {
		res.fail(StepClassify, ErrLowConfidence)
		return res
	}

	info, err := e.resolver.Resolve(r.URL, r.Brand)
	if err != nil {
		res.fail(StepSupplier, fmt.Errorf("%w: %w", ErrSupplierResolution, err))
	} else {
		res.SupplierInfo = info
		if res.Supplier, err = e.EnsureSupplier(ctx, info); err != nil {
			res.fail(StepSupplier, err)
		}
	}

	if err := ctx.Err(); err != nil {
		res.fail(StepEntry, err)
		return res
	}
	if req.Entry != nil {
		res.Entry = req.Entry
	} else {
		res.Entry, res.EntryIsNew, err = e.findOrCreate(ctx, kind, req)
		if err != nil {
			res.fail(StepEntry, err)
		}
	}

	if res.Supplier == nil || res.Entry == nil {
		return res
	}
	if err := ctx.Err(); err != nil {
		res.fail(StepRelationship, err)
		return res
	}

	res.Relationship, res.RelationshipIsNew, err = e.LinkSupplier(ctx, res.Entry, res.Supplier, info, r)
	if err != nil {
		res.fail(StepRelationship, err)
		return res
	}

	if res.Price, err = e.ObservePrice(ctx, res.Relationship, r); err != nil {
		res.fail(StepPriceHistory, err)
	}
	if res.Stock, err = e.RecordStock(ctx, res.Relationship, 0, r.PriceOrZero()); err != nil {
		res.fail(StepStockHistory, err)
	}
	return res
}

func (e *Engine) findOrCreate(ctx context.Context, kind model.CatalogKind, req Request) (*model.CatalogEntry, bool, error) {
	s := req.Suggestions
	if kind == model.KindMaterial {
		if s.Materials == nil {
			s = suggestAs(req.Record, model.TypeMaterial)
		}
		return e.FindOrCreateMaterial(ctx, req.Spec, req.Record, s.Materials)
	}
	if s.Parts == nil {
		s = suggestAs(req.Record, model.TypePart)
	}
	return e.FindOrCreatePart(ctx, s.Parts)
}

// EnsureSupplier returns the supplier with info's name, ignoring case,
// creating it when absent. Errors wrap ErrSupplierResolution.
func (e *Engine) EnsureSupplier(ctx context.Context, info model.SupplierInfo) (*model.Supplier, error) {
	name := strings.TrimSpace(info.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty supplier name", ErrSupplierResolution)
	}

	existing, err := e.store.FindSupplierByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: find %q: %w", ErrSupplierResolution, name, err)
	}
	if existing != nil {
		return existing, nil
	}

	created, err := e.store.CreateSupplier(ctx, model.Supplier{
		Name:    name,
		Website: info.Website,
		Contact: info.ContactInfo,
		Notes:   SupplierNote,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create %q: %w", ErrSupplierResolution, name, err)
	}
	e.logger.Info().Str("supplier", created.Name).Str("id", created.ID).Msg("created supplier")
	return created, nil
}

// FindOrCreateMaterial reuses a material whose primary size is within
// MaterialTolerance of the record's. Candidates are looked up by the
// declared material type, else the extracted one.
func (e *Engine) FindOrCreateMaterial(ctx context.Context, spec *MaterialSpec, r *model.ProductRecord, fields *suggest.MaterialFields) (*model.CatalogEntry, bool, error) {
	if fields == nil {
		fields = suggestAs(r, model.TypeMaterial).Materials
	}
	needle := r.MaterialType
	if spec != nil && spec.MaterialType != "" {
		needle = spec.MaterialType
	}

	if primary, ok := primaryMillimeters(r.Dimensions); ok {
		candidates, err := e.store.FindMaterialCandidates(ctx, needle, CandidateLimit)
		if err != nil {
			return nil, false, fmt.Errorf("find material candidates: %w", err)
		}
		for i := range candidates {
			c := candidates[i]
			if c.SizeXMM == nil {
				continue
			}
			size, err := strconv.ParseFloat(strings.TrimSpace(*c.SizeXMM), 64)
			if err != nil {
				continue
			}
			if math.Abs(size-primary) < MaterialTolerance {
				e.logger.Debug().Str("material", c.Name).Float64("size_mm", size).Msg("reusing material")
				return &c, false, nil
			}
		}
	}

	created, err := e.store.CreateCatalogEntry(ctx, materialEntry(fields, spec))
	if err != nil {
		return nil, false, fmt.Errorf("create material: %w", err)
	}
	e.logger.Info().Str("material", created.Name).Str("id", created.ID).Msg("created material")
	return created, true, nil
}

// FindOrCreatePart reuses a part with the same SKU or link.
func (e *Engine) FindOrCreatePart(ctx context.Context, fields *suggest.PartFields) (*model.CatalogEntry, bool, error) {
	if fields.SKU != "" || fields.Link != "" {
		existing, err := e.store.FindPart(ctx, fields.SKU, fields.Link)
		if err != nil {
			return nil, false, fmt.Errorf("find part: %w", err)
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	created, err := e.store.CreateCatalogEntry(ctx, model.CatalogEntry{
		Kind:        model.KindPart,
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Cost,
		SKU:         fields.SKU,
		Link:        fields.Link,
		Category:    fields.Category,
		Supplier:    fields.Supplier,
		InStock:     fields.InStock,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create part: %w", err)
	}
	e.logger.Info().Str("part", created.Name).Str("id", created.ID).Msg("created part")
	return created, true, nil
}

// LinkSupplier returns the (entry, supplier) relationship, creating it
// when absent.
func (e *Engine) LinkSupplier(ctx context.Context, entry *model.CatalogEntry, s *model.Supplier, info model.SupplierInfo, r *model.ProductRecord) (*model.SupplierRelationship, bool, error) {
	existing, err := e.store.FindSupplierRelationship(ctx, entry.ID, s.ID)
	if err != nil {
		return nil, false, fmt.Errorf("find relationship: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := e.store.CreateSupplierRelationship(ctx, model.SupplierRelationship{
		EntryID:          entry.ID,
		EntryKind:        entry.Kind,
		SupplierID:       s.ID,
		Link:             r.URL,
		SKU:              r.SKU,
		Price:            r.PriceOrZero(),
		MinOrderQuantity: DefaultMOQ,
		LeadTimeDays:     r.LeadTimeDays,
		Notes:            relationshipNote(info.Marketplace, r.LeadTimeDays),
	})
	if err != nil {
		return nil, false, fmt.Errorf("create relationship: %w", err)
	}
	return created, true, nil
}

// ObservePrice records the price and, when a new row was written,
// propagates it to the relationship and the entry. Propagation failures
// are logged only.
func (e *Engine) ObservePrice(ctx context.Context, rel *model.SupplierRelationship, r *model.ProductRecord) (*HistoryOutcome, error) {
	return e.observePrice(ctx, rel, r, "")
}

// UpdatePrice is ObservePrice with a caller-supplied history note, used by
// scheduled price checks.
func (e *Engine) UpdatePrice(ctx context.Context, rel *model.SupplierRelationship, r *model.ProductRecord, note string) (*HistoryOutcome, error) {
	return e.observePrice(ctx, rel, r, note)
}

func (e *Engine) observePrice(ctx context.Context, rel *model.SupplierRelationship, r *model.ProductRecord, note string) (*HistoryOutcome, error) {
	out, err := e.recordPrice(ctx, rel, r, note)
	if err != nil || out.Skipped || r.Price == nil {
		return out, err
	}

	price := *r.Price
	if math.Abs(rel.Price-price) > PriceTolerance {
		if err := e.store.UpdateSupplierRelationshipPrice(ctx, rel.ID, price); err != nil {
			e.logger.Warn().Err(err).Str("relationship", rel.ID).Msg("relationship price not updated")
		} else {
			rel.Price = price
		}
	}
	if err := e.store.UpdateCatalogEntryPrice(ctx, rel.EntryID, price); err != nil {
		e.logger.Warn().Err(err).Str("entry", rel.EntryID).Msg("catalog price not updated")
	}
	return out, nil
}

func relationshipNote(marketplace string, leadTime *int) string {
	note := "Auto-created"
	if marketplace != "" {
		note += " via " + marketplace
	}
	if leadTime != nil {
		note += fmt.Sprintf(" | Lead time: %d days", *leadTime)
	}
	return note
}

func materialEntry(f *suggest.MaterialFields, spec *MaterialSpec) model.CatalogEntry {
	entry := model.CatalogEntry{
		Kind:        model.KindMaterial,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.PricePerUnit,
		Link:        f.Link,
		Supplier:    f.Supplier,
		UnitType:    f.UnitType,
		InStock:     f.InStock,
		SizeMM:      f.SizeMM,
		SizeInches:  f.SizeInches,
		SizeXMM:     f.XMM,
		SizeYMM:     f.YMM,
		SizeZMM:     f.ZMM,
		SizeXInches: f.XInches,
		SizeYInches: f.YInches,
		SizeZInches: f.ZInches,
	}
	if spec != nil {
		if spec.Name != "" {
			entry.Name = spec.Name
		}
		if spec.Thickness != "" {
			entry.Description = strings.TrimPrefix(entry.Description+" | Thickness: "+spec.Thickness, " | ")
		}
	}
	return entry
}

func primaryMillimeters(d model.Dimensions) (float64, bool) {
	v, ok := d.Primary()
	if !ok {
		return 0, false
	}
	return normalize.ToMillimeters(v, d.Unit)
}

func kindOf(t model.ProductType) model.CatalogKind {
	switch t {
	case model.TypePart:
		return model.KindPart
	case model.TypeMaterial:
		return model.KindMaterial
	}
	return ""
}

func suggestAs(r *model.ProductRecord, t model.ProductType) suggest.Suggestions {
	typed := *r
	typed.SuggestedType = t
	return suggest.Suggest(&typed)
}
