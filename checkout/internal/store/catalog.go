package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"convenience_store/checkout/internal/logic"

	"github.com/lib/pq"
)

// 1. THE DATA STRUCTURE
// Mirrors the 'catalog' table. PromoRequired is NULL for products without
// an N+1 promotion.
type Item struct {
	ID            int
	Name          string
	UnitPrice     int64
	Stock         int
	PromoRequired sql.NullInt64
	CreatedAt     time.Time
}

// 2. THE STORE OBJECT
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore expects 'main.go' to pass it a working database connection.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

//go:embed schema.sql
var schema string

// EnsureSchema creates the catalog table when it does not exist yet.
func (s *CatalogStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

// 3. LOAD (catalog table -> core rows)
func (s *CatalogStore) LoadRows(ctx context.Context) ([]logic.EntryData, map[string]int, error) {
	query := `
		SELECT id, name, unit_price, stock, promo_required, created_at
		FROM catalog
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer rows.Close()

	var entries []logic.EntryData
	promotions := make(map[string]int)
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name, &i.UnitPrice, &i.Stock, &i.PromoRequired, &i.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		entries = append(entries, logic.EntryData{Name: i.Name, UnitPrice: i.UnitPrice, Stock: i.Stock})
		if i.PromoRequired.Valid {
			promotions[i.Name] = int(i.PromoRequired.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}
	return entries, promotions, nil
}

// Load builds a core catalog straight from the table.
func (s *CatalogStore) Load(ctx context.Context) (*logic.Catalog, error) {
	entries, promotions, err := s.LoadRows(ctx)
	if err != nil {
		return nil, err
	}
	return logic.LoadCatalog(entries, promotions)
}

// 4. GET BATCH
func (s *CatalogStore) GetItemsByNames(ctx context.Context, names []string) (map[string]*Item, error) {
	query := `
		SELECT id, name, unit_price, stock, promo_required, created_at
		FROM catalog
		WHERE name = ANY($1)
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to batch get items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]*Item)
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name, &i.UnitPrice, &i.Stock, &i.PromoRequired, &i.CreatedAt); err != nil {
			return nil, err
		}
		items[i.Name] = &i
	}
	return items, rows.Err()
}

// 5. UPSERT
// If the product exists its price, stock and promotion are replaced.
func (s *CatalogStore) UpsertItem(ctx context.Context, item Item) (int, error) {
	query := `
		INSERT INTO catalog (name, unit_price, stock, promo_required)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name)
		DO UPDATE SET
			unit_price = EXCLUDED.unit_price,
			stock = EXCLUDED.stock,
			promo_required = EXCLUDED.promo_required
		RETURNING id
	`
	var id int
	err := s.db.QueryRowContext(ctx, query, item.Name, item.UnitPrice, item.Stock, item.PromoRequired).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert item: %w", err)
	}
	return id, nil
}

// ImportCatalog upserts every entry of an in-memory catalog.
func (s *CatalogStore) ImportCatalog(ctx context.Context, catalog *logic.Catalog) (int, error) {
	count := 0
	for _, e := range catalog.Entries() {
		item := Item{Name: e.Name(), UnitPrice: e.UnitPrice(), Stock: e.Stock()}
		if p := e.Promotion(); p != nil {
			item.PromoRequired = sql.NullInt64{Int64: int64(p.RequiredQuantity()), Valid: true}
		}
		if _, err := s.UpsertItem(ctx, item); err != nil {
			return count, fmt.Errorf("import %s: %w", e.Name(), err)
		}
		count++
	}
	return count, nil
}

// 6. DECREMENT STOCK
// One conditional UPDATE, so concurrent checkouts can never oversell.
func (s *CatalogStore) DecrementStock(ctx context.Context, name string, quantity int) error {
	query := `
		UPDATE catalog
		SET stock = stock - $2
		WHERE name = $1 AND stock >= $2
		RETURNING stock
	`
	var left int
	err := s.db.QueryRowContext(ctx, query, name, quantity).Scan(&left)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s x%d", logic.ErrInsufficientStock, name, quantity)
	} else if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	return nil
}

// 7. RESTORE STOCK
func (s *CatalogStore) RestoreStock(ctx context.Context, name string, quantity int) error {
	query := `
		UPDATE catalog
		SET stock = stock + $2
		WHERE name = $1
	`
	if _, err := s.db.ExecContext(ctx, query, name, quantity); err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}
