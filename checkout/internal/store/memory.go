package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"convenience_store/checkout/internal/logic"

	"github.com/redis/go-redis/v9"
)

// ErrReceiptNotFound is returned when no receipt is cached for an order.
var ErrReceiptNotFound = errors.New("receipt not found")

// StoredReceipt is a confirmed checkout as cached in redis.
type StoredReceipt struct {
	OrderID    string        `json:"order_id"`
	Membership bool          `json:"membership"`
	Receipt    logic.Receipt `json:"receipt"`
	CreatedAt  time.Time     `json:"created_at"`
}

type MemoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMemoryStore creates a redis client for receipts and confirmation markers.
func NewMemoryStore(addr, password string, db int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping verifies connectivity and credentials.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// SaveReceipt stores a confirmed receipt under its order id with a bounded ttl.
func (m *MemoryStore) SaveReceipt(ctx context.Context, r StoredReceipt) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	// Key: receipt:orderID
	return m.client.Set(ctx, "receipt:"+r.OrderID, data, m.ttl).Err()
}

// GetReceipt loads a cached receipt.
func (m *MemoryStore) GetReceipt(ctx context.Context, orderID string) (*StoredReceipt, error) {
	val, err := m.client.Get(ctx, "receipt:"+orderID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrReceiptNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	var r StoredReceipt
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}
	return &r, nil
}

// TryMarkConfirmed sets a one-time marker for a client idempotency key
// using SETNX semantics. The second caller with the same key gets false.
func (m *MemoryStore) TryMarkConfirmed(ctx context.Context, key, orderID string) (bool, error) {
	return m.client.SetNX(ctx, "confirmed:"+key, orderID, m.ttl).Result()
}

// ConfirmedOrder returns the order id recorded for an idempotency key.
func (m *MemoryStore) ConfirmedOrder(ctx context.Context, key string) (string, error) {
	val, err := m.client.Get(ctx, "confirmed:"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrReceiptNotFound
	}
	return val, err
}

// ReleaseMarker drops an idempotency marker whose checkout failed.
func (m *MemoryStore) ReleaseMarker(ctx context.Context, key string) {
	m.client.Del(ctx, "confirmed:"+key)
}

// Close releases the redis connection pool.
func (m *MemoryStore) Close() error {
	return m.client.Close()
}
