package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalogsync/internal/db"
	"catalogsync/internal/model"
)

const entryColumns = `id, kind, name, description, price, sku, link, category, supplier, unit_type, in_stock,
	size_mm, size_inches, size_x_mm, size_y_mm, size_z_mm, size_x_inches, size_y_inches, size_z_inches, created_at`

const relationshipColumns = `id, entry_id, entry_kind, supplier_id, link, sku, price, min_order_quantity, lead_time_days, notes, created_at`

const historyColumns = `id, kind, entry_kind, entry_id, supplier_id, price, stock_level, recorded_at, notes,
	is_on_sale, original_price, discount_percentage, lead_time_days`

// SQLStore persists the catalog through database/sql on Postgres (pgx or
// lib/pq) or SQLite.
type SQLStore struct {
	conn    *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

func NewSQLStore(conn *sql.DB, dialect db.Dialect) *SQLStore {
	return &SQLStore{conn: conn, dialect: dialect, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.conn.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.conn.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.conn.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *SQLStore) FindSupplierByName(ctx context.Context, name string) (*model.Supplier, error) {
	var sup model.Supplier
	err := s.queryRow(ctx, `
		SELECT id, name, website, contact, notes, created_at
		FROM suppliers
		WHERE lower(name) = lower(?)
	`, name).Scan(&sup.ID, &sup.Name, &sup.Website, &sup.Contact, &sup.Notes, db.Timestamp{T: &sup.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find supplier %q: %w", name, err)
	}
	return &sup, nil
}

// CreateSupplier inserts sup; when another writer already holds the name
// the existing row is returned instead.
func (s *SQLStore) CreateSupplier(ctx context.Context, sup model.Supplier) (*model.Supplier, error) {
	sup.ID = uuid.NewString()
	sup.CreatedAt = s.now().UTC()
	_, err := s.exec(ctx, `
		INSERT INTO suppliers (id, name, website, contact, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sup.ID, sup.Name, sup.Website, sup.Contact, sup.Notes, s.dialect.Stamp(sup.CreatedAt))
	if isUniqueViolation(err) {
		existing, findErr := s.FindSupplierByName(ctx, sup.Name)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, fmt.Errorf("create supplier %q: %w", sup.Name, ErrConflict)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create supplier %q: %w", sup.Name, err)
	}
	return &sup, nil
}

func scanEntry(row rowScanner) (model.CatalogEntry, error) {
	var e model.CatalogEntry
	var kind string
	err := row.Scan(&e.ID, &kind, &e.Name, &e.Description, &e.Price, &e.SKU, &e.Link, &e.Category,
		&e.Supplier, &e.UnitType, &e.InStock,
		&e.SizeMM, &e.SizeInches, &e.SizeXMM, &e.SizeYMM, &e.SizeZMM,
		&e.SizeXInches, &e.SizeYInches, &e.SizeZInches, db.Timestamp{T: &e.CreatedAt})
	e.Kind = model.CatalogKind(kind)
	return e, err
}

func likePattern(needle string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(needle) + "%"
}

func (s *SQLStore) FindMaterialCandidates(ctx context.Context, nameLike string, limit int) ([]model.CatalogEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.query(ctx, `
		SELECT `+entryColumns+`
		FROM catalog_entries
		WHERE kind = ? AND name `+s.dialect.Like()+` ? ESCAPE '\'
		ORDER BY created_at
		LIMIT ?
	`, string(model.KindMaterial), likePattern(nameLike), limit)
	if err != nil {
		return nil, fmt.Errorf("find materials like %q: %w", nameLike, err)
	}
	defer rows.Close()

	var list []model.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (s *SQLStore) FindPart(ctx context.Context, sku, link string) (*model.CatalogEntry, error) {
	var conds []string
	args := []any{string(model.KindPart)}
	if sku != "" {
		conds = append(conds, "lower(sku) = lower(?)")
		args = append(args, sku)
	}
	if link != "" {
		conds = append(conds, "link = ?")
		args = append(args, link)
	}
	if len(conds) == 0 {
		return nil, nil
	}

	e, err := scanEntry(s.queryRow(ctx, `
		SELECT `+entryColumns+`
		FROM catalog_entries
		WHERE kind = ? AND (`+strings.Join(conds, " OR ")+`)
		ORDER BY created_at
		LIMIT 1
	`, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find part: %w", err)
	}
	return &e, nil
}

func (s *SQLStore) CreateCatalogEntry(ctx context.Context, e model.CatalogEntry) (*model.CatalogEntry, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = s.now().UTC()
	_, err := s.exec(ctx, `
		INSERT INTO catalog_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Kind), e.Name, e.Description, e.Price, e.SKU, e.Link, e.Category,
		e.Supplier, e.UnitType, e.InStock,
		e.SizeMM, e.SizeInches, e.SizeXMM, e.SizeYMM, e.SizeZMM,
		e.SizeXInches, e.SizeYInches, e.SizeZInches, s.dialect.Stamp(e.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("create %s %q: %w", e.Kind, e.Name, err)
	}
	return &e, nil
}

func (s *SQLStore) UpdateCatalogEntryPrice(ctx context.Context, id string, price float64) error {
	return s.updateOne(ctx, `UPDATE catalog_entries SET price = ? WHERE id = ?`, price, id)
}

func (s *SQLStore) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRelationship(row rowScanner) (model.SupplierRelationship, error) {
	var r model.SupplierRelationship
	var kind string
	err := row.Scan(&r.ID, &r.EntryID, &kind, &r.SupplierID, &r.Link, &r.SKU, &r.Price,
		&r.MinOrderQuantity, &r.LeadTimeDays, &r.Notes, db.Timestamp{T: &r.CreatedAt})
	r.EntryKind = model.CatalogKind(kind)
	return r, err
}

func (s *SQLStore) FindSupplierRelationship(ctx context.Context, entryID, supplierID string) (*model.SupplierRelationship, error) {
	r, err := scanRelationship(s.queryRow(ctx, `
		SELECT `+relationshipColumns+`
		FROM supplier_relationships
		WHERE entry_id = ? AND supplier_id = ?
	`, entryID, supplierID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find relationship: %w", err)
	}
	return &r, nil
}

func (s *SQLStore) CreateSupplierRelationship(ctx context.Context, rel model.SupplierRelationship) (*model.SupplierRelationship, error) {
	rel.ID = uuid.NewString()
	rel.CreatedAt = s.now().UTC()
	_, err := s.exec(ctx, `
		INSERT INTO supplier_relationships (`+relationshipColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rel.ID, rel.EntryID, string(rel.EntryKind), rel.SupplierID, rel.Link, rel.SKU, rel.Price,
		rel.MinOrderQuantity, rel.LeadTimeDays, rel.Notes, s.dialect.Stamp(rel.CreatedAt))
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("create relationship: %w", err)
	}
	return &rel, nil
}

func (s *SQLStore) UpdateSupplierRelationshipPrice(ctx context.Context, id string, price float64) error {
	return s.updateOne(ctx, `UPDATE supplier_relationships SET price = ? WHERE id = ?`, price, id)
}

// ListSupplierRelationships returns every relationship, oldest first; the
// price updater walks it.
func (s *SQLStore) ListSupplierRelationships(ctx context.Context) ([]model.SupplierRelationship, error) {
	rows, err := s.query(ctx, `
		SELECT `+relationshipColumns+`
		FROM supplier_relationships
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.SupplierRelationship
	for rows.Next() {
		r, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *SQLStore) FindHistoryForDay(ctx context.Context, kind model.HistoryKind, entryID, supplierID string, from, to time.Time) ([]model.HistoryRecord, error) {
	rows, err := s.query(ctx, `
		SELECT `+historyColumns+`
		FROM history
		WHERE kind = ? AND entry_id = ? AND supplier_id = ? AND recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at DESC
	`, string(kind), entryID, supplierID, s.dialect.Stamp(from), s.dialect.Stamp(to))
	if err != nil {
		return nil, fmt.Errorf("find %s history: %w", kind, err)
	}
	defer rows.Close()

	var list []model.HistoryRecord
	for rows.Next() {
		var h model.HistoryRecord
		var hkind, ekind string
		if err := rows.Scan(&h.ID, &hkind, &ekind, &h.EntryID, &h.SupplierID, &h.Price, &h.StockLevel,
			db.Timestamp{T: &h.RecordedAt}, &h.Note, &h.IsOnSale, &h.OriginalPrice,
			&h.DiscountPercentage, &h.LeadTimeDays); err != nil {
			return nil, err
		}
		h.Kind = model.HistoryKind(hkind)
		h.EntryKind = model.CatalogKind(ekind)
		list = append(list, h)
	}
	return list, rows.Err()
}

func (s *SQLStore) InsertHistory(ctx context.Context, rec model.HistoryRecord) (*model.HistoryRecord, error) {
	rec.ID = uuid.NewString()
	rec.RecordedAt = rec.RecordedAt.UTC()
	_, err := s.exec(ctx, `
		INSERT INTO history (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, string(rec.Kind), string(rec.EntryKind), rec.EntryID, rec.SupplierID, rec.Price, rec.StockLevel,
		s.dialect.Stamp(rec.RecordedAt), rec.Note, rec.IsOnSale, rec.OriginalPrice,
		rec.DiscountPercentage, rec.LeadTimeDays)
	if err != nil {
		return nil, fmt.Errorf("insert %s history: %w", rec.Kind, err)
	}
	return &rec, nil
}
