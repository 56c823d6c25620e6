package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/db"
	"catalogsync/internal/model"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	conn, dialect, err := db.Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	store := NewSQLStore(conn, dialect)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrateIsRepeatable(t *testing.T) {
	store := newSQLiteStore(t)
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestSQLStoreSuppliers(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	missing, err := store.FindSupplierByName(ctx, "McMaster-Carr")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := store.CreateSupplier(ctx, model.Supplier{Name: "McMaster-Carr", Website: "https://www.mcmaster.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := store.FindSupplierByName(ctx, "mcmaster-carr")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "https://www.mcmaster.com", found.Website)

	again, err := store.CreateSupplier(ctx, model.Supplier{Name: "MCMASTER-CARR"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestSQLStoreCatalogEntries(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	sheet, err := store.CreateCatalogEntry(ctx, model.CatalogEntry{
		Kind:        model.KindMaterial,
		Name:        "Aluminum 100%_Sheet",
		Price:       119.22,
		SizeXMM:     model.String("304.8"),
		SizeXInches: model.String("12"),
		InStock:     1,
	})
	require.NoError(t, err)
	_, err = store.CreateCatalogEntry(ctx, model.CatalogEntry{Kind: model.KindMaterial, Name: "Aluminum 1000 sheet"})
	require.NoError(t, err)
	bolt, err := store.CreateCatalogEntry(ctx, model.CatalogEntry{
		Kind: model.KindPart, Name: "Hex Bolt", SKU: "HB-8", Link: "https://shop.example/bolt",
	})
	require.NoError(t, err)

	list, err := store.FindMaterialCandidates(ctx, "aluminum", 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// % and _ are literal in the needle
	list, err = store.FindMaterialCandidates(ctx, "100%_", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sheet.ID, list[0].ID)
	require.NotNil(t, list[0].SizeXMM)
	assert.Equal(t, "304.8", *list[0].SizeXMM)
	assert.Nil(t, list[0].SizeYMM)
	assert.Equal(t, 1, list[0].InStock)
	assert.InDelta(t, 119.22, list[0].Price, 1e-9)

	list, err = store.FindMaterialCandidates(ctx, "bolt", 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	bySKU, err := store.FindPart(ctx, "hb-8", "")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
	assert.Equal(t, bolt.ID, bySKU.ID)

	byLink, err := store.FindPart(ctx, "", "https://shop.example/bolt")
	require.NoError(t, err)
	require.NotNil(t, byLink)
	assert.Equal(t, model.KindPart, byLink.Kind)

	none, err := store.FindPart(ctx, "", "")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, store.UpdateCatalogEntryPrice(ctx, bolt.ID, 0.42))
	bySKU, err = store.FindPart(ctx, "HB-8", "")
	require.NoError(t, err)
	assert.InDelta(t, 0.42, bySKU.Price, 1e-9)

	assert.ErrorIs(t, store.UpdateCatalogEntryPrice(ctx, "nope", 1), ErrNotFound)
}

func TestSQLStoreRelationshipsAndHistory(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	sup, err := store.CreateSupplier(ctx, model.Supplier{Name: "OnlineMetals"})
	require.NoError(t, err)
	entry, err := store.CreateCatalogEntry(ctx, model.CatalogEntry{Kind: model.KindMaterial, Name: "Aluminum Sheet"})
	require.NoError(t, err)

	rel, err := store.CreateSupplierRelationship(ctx, model.SupplierRelationship{
		EntryID: entry.ID, EntryKind: model.KindMaterial, SupplierID: sup.ID,
		Price: 119.22, MinOrderQuantity: 1, LeadTimeDays: model.Int(5),
	})
	require.NoError(t, err)

	_, err = store.CreateSupplierRelationship(ctx, model.SupplierRelationship{
		EntryID: entry.ID, EntryKind: model.KindMaterial, SupplierID: sup.ID,
	})
	assert.ErrorIs(t, err, ErrConflict)

	found, err := store.FindSupplierRelationship(ctx, entry.ID, sup.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, rel.ID, found.ID)
	require.NotNil(t, found.LeadTimeDays)
	assert.Equal(t, 5, *found.LeadTimeDays)

	require.NoError(t, store.UpdateSupplierRelationshipPrice(ctx, rel.ID, 125))
	all, err := store.ListSupplierRelationships(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.InDelta(t, 125, all[0].Price, 1e-9)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	for i, price := range []float64{119.22, 125} {
		_, err := store.InsertHistory(ctx, model.HistoryRecord{
			Kind: model.HistoryPrice, EntryKind: model.KindMaterial, EntryID: entry.ID, SupplierID: sup.ID,
			Price: price, RecordedAt: day.Add(time.Duration(9+i) * time.Hour),
			IsOnSale: i == 1, OriginalPrice: model.Float(150),
		})
		require.NoError(t, err)
	}
	_, err = store.InsertHistory(ctx, model.HistoryRecord{
		Kind: model.HistoryPrice, EntryKind: model.KindMaterial, EntryID: entry.ID, SupplierID: sup.ID,
		Price: 99, RecordedAt: day.Add(-time.Hour),
	})
	require.NoError(t, err)

	today, err := store.FindHistoryForDay(ctx, model.HistoryPrice, entry.ID, sup.ID, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.InDelta(t, 125, today[0].Price, 1e-9)
	assert.True(t, today[0].IsOnSale)
	assert.Equal(t, day.Add(10*time.Hour), today[0].RecordedAt)
	require.NotNil(t, today[0].OriginalPrice)
	assert.Nil(t, today[0].DiscountPercentage)
	assert.Equal(t, model.HistoryPrice, today[0].Kind)

	stock, err := store.FindHistoryForDay(ctx, model.HistoryStock, entry.ID, sup.ID, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stock)
}
