package reconcile

import (
	"context"
	"time"

	"catalogsync/internal/model"
)

// Store is the persistence port of the engine. Find methods return nil and
// no error when nothing matches.
//
// Same-day history idempotence is a read-then-insert and assumes one writer
// per (entry, supplier). CreateSupplier must be safe against concurrent
// creators: on a name conflict it returns the row that won.
type Store interface {
	FindSupplierByName(ctx context.Context, name string) (*model.Supplier, error)
	CreateSupplier(ctx context.Context, s model.Supplier) (*model.Supplier, error)

	FindMaterialCandidates(ctx context.Context, nameLike string, limit int) ([]model.CatalogEntry, error)
	FindPart(ctx context.Context, sku, link string) (*model.CatalogEntry, error)
	CreateCatalogEntry(ctx context.Context, e model.CatalogEntry) (*model.CatalogEntry, error)
	UpdateCatalogEntryPrice(ctx context.Context, id string, price float64) error

	FindSupplierRelationship(ctx context.Context, entryID, supplierID string) (*model.SupplierRelationship, error)
	CreateSupplierRelationship(ctx context.Context, rel model.SupplierRelationship) (*model.SupplierRelationship, error)
	UpdateSupplierRelationshipPrice(ctx context.Context, id string, price float64) error

	// FindHistoryForDay returns records with from <= recorded_at < to,
	// newest first.
	FindHistoryForDay(ctx context.Context, kind model.HistoryKind, entryID, supplierID string, from, to time.Time) ([]model.HistoryRecord, error)
	InsertHistory(ctx context.Context, rec model.HistoryRecord) (*model.HistoryRecord, error)
}

// Resolver maps a product URL and brand to a supplier;
// supplier.Directory satisfies it.
type Resolver interface {
	Resolve(rawURL, brand string) (model.SupplierInfo, error)
}
