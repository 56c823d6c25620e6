package repository

import (
	"context"
	"fmt"
	"strings"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		website TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS suppliers_name_key ON suppliers (lower(name))`,
	`CREATE TABLE IF NOT EXISTS catalog_entries (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		sku TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		supplier TEXT NOT NULL DEFAULT '',
		unit_type TEXT NOT NULL DEFAULT '',
		in_stock INTEGER NOT NULL DEFAULT 0,
		size_mm TEXT,
		size_inches TEXT,
		size_x_mm TEXT,
		size_y_mm TEXT,
		size_z_mm TEXT,
		size_x_inches TEXT,
		size_y_inches TEXT,
		size_z_inches TEXT,
		created_at {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS catalog_entries_kind_idx ON catalog_entries (kind)`,
	`CREATE TABLE IF NOT EXISTS supplier_relationships (
		id TEXT PRIMARY KEY,
		entry_id TEXT NOT NULL REFERENCES catalog_entries (id),
		entry_kind TEXT NOT NULL,
		supplier_id TEXT NOT NULL REFERENCES suppliers (id),
		link TEXT NOT NULL DEFAULT '',
		sku TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_order_quantity INTEGER NOT NULL DEFAULT 1,
		lead_time_days INTEGER,
		notes TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL,
		UNIQUE (entry_id, supplier_id)
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		entry_kind TEXT NOT NULL,
		entry_id TEXT NOT NULL,
		supplier_id TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		stock_level INTEGER NOT NULL DEFAULT 0,
		recorded_at {{ts}} NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		is_on_sale BOOLEAN NOT NULL DEFAULT FALSE,
		original_price DOUBLE PRECISION,
		discount_percentage DOUBLE PRECISION,
		lead_time_days INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS history_lookup_idx ON history (kind, entry_id, supplier_id, recorded_at)`,
}

// Migrate creates the catalog tables when they are missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{ts}}", s.dialect.TimestampType())
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
