package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalogsync/internal/model"
)

// MemoryStore keeps the catalog in process memory. It backs dry runs and
// tests and follows the same contract as SQLStore.
type MemoryStore struct {
	mu        sync.Mutex
	suppliers []model.Supplier
	entries   []model.CatalogEntry
	rels      []model.SupplierRelationship
	history   []model.HistoryRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) FindSupplierByName(_ context.Context, name string) (*model.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supplierByName(name), nil
}

func (m *MemoryStore) supplierByName(name string) *model.Supplier {
	for _, s := range m.suppliers {
		if strings.EqualFold(s.Name, name) {
			return &s
		}
	}
	return nil
}

func (m *MemoryStore) CreateSupplier(_ context.Context, s model.Supplier) (*model.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.supplierByName(s.Name); existing != nil {
		return existing, nil
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()
	m.suppliers = append(m.suppliers, s)
	return &s, nil
}

func (m *MemoryStore) FindMaterialCandidates(_ context.Context, nameLike string, limit int) ([]model.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(nameLike)
	var out []model.CatalogEntry
	for _, e := range m.entries {
		if e.Kind != model.KindMaterial || !strings.Contains(strings.ToLower(e.Name), needle) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) FindPart(_ context.Context, sku, link string) (*model.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Kind != model.KindPart {
			continue
		}
		if (sku != "" && strings.EqualFold(e.SKU, sku)) || (link != "" && e.Link == link) {
			return &e, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateCatalogEntry(_ context.Context, e model.CatalogEntry) (*model.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *MemoryStore) UpdateCatalogEntryPrice(_ context.Context, id string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].Price = price
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) FindSupplierRelationship(_ context.Context, entryID, supplierID string) (*model.SupplierRelationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rels {
		if r.EntryID == entryID && r.SupplierID == supplierID {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CreateSupplierRelationship(_ context.Context, rel model.SupplierRelationship) (*model.SupplierRelationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rels {
		if r.EntryID == rel.EntryID && r.SupplierID == rel.SupplierID {
			return nil, ErrConflict
		}
	}
	rel.ID = uuid.NewString()
	rel.CreatedAt = time.Now().UTC()
	m.rels = append(m.rels, rel)
	return &rel, nil
}

func (m *MemoryStore) UpdateSupplierRelationshipPrice(_ context.Context, id string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rels {
		if m.rels[i].ID == id {
			m.rels[i].Price = price
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) ListSupplierRelationships(_ context.Context) ([]model.SupplierRelationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rels), nil
}

func (m *MemoryStore) FindHistoryForDay(_ context.Context, kind model.HistoryKind, entryID, supplierID string, from, to time.Time) ([]model.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HistoryRecord
	// newest insert first, then a stable sort keeps that order for equal stamps
	for i := len(m.history) - 1; i >= 0; i-- {
		h := m.history[i]
		if h.Kind != kind || h.EntryID != entryID || h.SupplierID != supplierID {
			continue
		}
		if h.RecordedAt.Before(from) || !h.RecordedAt.Before(to) {
			continue
		}
		out = append(out, h)
	}
	slices.SortStableFunc(out, func(a, b model.HistoryRecord) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})
	return out, nil
}

func (m *MemoryStore) InsertHistory(_ context.Context, rec model.HistoryRecord) (*model.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = uuid.NewString()
	m.history = append(m.history, rec)
	return &rec, nil
}

// History returns every stored record of kind, oldest first.
func (m *MemoryStore) History(kind model.HistoryKind) []model.HistoryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HistoryRecord
	for _, h := range m.history {
		if h.Kind == kind {
			out = append(out, h)
		}
	}
	return out
}

func (m *MemoryStore) Suppliers() []model.Supplier {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.suppliers)
}

func (m *MemoryStore) Entries() []model.CatalogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

func (m *MemoryStore) Relationships() []model.SupplierRelationship {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rels)
}
