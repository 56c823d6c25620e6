//go:build integration

package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"catalogsync/internal/db"
	"catalogsync/internal/model"
)

func TestSQLStoreOnPostgres(t *testing.T) {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	for i, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			conn, dialect, err := db.Open(ctx, driver, dsn)
			require.NoError(t, err)
			defer conn.Close()

			store := NewSQLStore(conn, dialect)
			require.NoError(t, store.Migrate(ctx))

			name := []string{"OnlineMetals", "McMaster-Carr"}[i]
			sup, err := store.CreateSupplier(ctx, model.Supplier{Name: name})
			require.NoError(t, err)
			dup, err := store.CreateSupplier(ctx, model.Supplier{Name: strings.ToUpper(name)})
			require.NoError(t, err)
			assert.Equal(t, sup.ID, dup.ID)

			entry, err := store.CreateCatalogEntry(ctx, model.CatalogEntry{
				Kind: model.KindMaterial, Name: "Aluminum Sheet " + driver, SizeXMM: model.String("304.8"),
			})
			require.NoError(t, err)

			list, err := store.FindMaterialCandidates(ctx, "aluminum sheet "+driver, 10)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, entry.ID, list[0].ID)

			rel, err := store.CreateSupplierRelationship(ctx, model.SupplierRelationship{
				EntryID: entry.ID, EntryKind: model.KindMaterial, SupplierID: sup.ID, MinOrderQuantity: 1,
			})
			require.NoError(t, err)
			_, err = store.CreateSupplierRelationship(ctx, model.SupplierRelationship{
				EntryID: entry.ID, EntryKind: model.KindMaterial, SupplierID: sup.ID,
			})
			assert.ErrorIs(t, err, ErrConflict)

			now := time.Now().UTC()
			_, err = store.InsertHistory(ctx, model.HistoryRecord{
				Kind: model.HistoryStock, EntryKind: model.KindMaterial, EntryID: entry.ID,
				SupplierID: rel.SupplierID, StockLevel: 1, RecordedAt: now,
			})
			require.NoError(t, err)

			day := now.Truncate(24 * time.Hour)
			got, err := store.FindHistoryForDay(ctx, model.HistoryStock, entry.ID, sup.ID, day, day.Add(24*time.Hour))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, 1, got[0].StockLevel)
		})
	}
}
