package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"convenience_store/checkout/internal/logic"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests talk to real services and only run when pointed at them.

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Ping())
	return db
}

func TestCatalogStore_RoundTripAndDecrement(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewCatalogStore(db)
	require.NoError(t, s.EnsureSchema(ctx))

	name := "test-soda-" + uuid.NewString()
	t.Cleanup(func() { db.Exec(`DELETE FROM catalog WHERE name = $1`, name) })

	_, err := s.UpsertItem(ctx, Item{Name: name, UnitPrice: 1000, Stock: 3, PromoRequired: sql.NullInt64{Int64: 2, Valid: true}})
	require.NoError(t, err)

	items, err := s.GetItemsByNames(ctx, []string{name})
	require.NoError(t, err)
	require.Contains(t, items, name)
	assert.Equal(t, 3, items[name].Stock)

	require.NoError(t, s.DecrementStock(ctx, name, 2))
	err = s.DecrementStock(ctx, name, 2)
	assert.ErrorIs(t, err, logic.ErrInsufficientStock)

	require.NoError(t, s.RestoreStock(ctx, name, 2))
	items, err = s.GetItemsByNames(ctx, []string{name})
	require.NoError(t, err)
	assert.Equal(t, 3, items[name].Stock)
}

func TestMemoryStore_ReceiptsAndMarkers(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	m := NewMemoryStore(addr, os.Getenv("TEST_REDIS_PW"), 0, time.Minute)
	t.Cleanup(func() { m.Close() })
	require.NoError(t, m.Ping(ctx))

	orderID := uuid.NewString()
	_, err := m.GetReceipt(ctx, orderID)
	assert.ErrorIs(t, err, ErrReceiptNotFound)

	stored := StoredReceipt{OrderID: orderID, Receipt: logic.Receipt{Gross: 3000, Net: 3000}, CreatedAt: time.Now().UTC()}
	require.NoError(t, m.SaveReceipt(ctx, stored))

	got, err := m.GetReceipt(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), got.Receipt.Net)

	key := uuid.NewString()
	first, err := m.TryMarkConfirmed(ctx, key, orderID)
	require.NoError(t, err)
	assert.True(t, first)
	second, err := m.TryMarkConfirmed(ctx, key, "other")
	require.NoError(t, err)
	assert.False(t, second)

	recorded, err := m.ConfirmedOrder(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, orderID, recorded)

	m.ReleaseMarker(ctx, key)
	_, err = m.ConfirmedOrder(ctx, key)
	assert.ErrorIs(t, err, ErrReceiptNotFound)
}
