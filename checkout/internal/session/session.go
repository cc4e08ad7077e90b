// Package session ties the pricing core together for one checkout: a cart
// built against a shared catalog, discounts, the receipt, and the stock
// decrement that confirms the purchase.
package session

import (
	"context"
	"fmt"
	"time"

	"convenience_store/checkout/internal/logic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockMirror receives confirmed stock movements, e.g. the catalog table.
type StockMirror interface {
	DecrementStock(ctx context.Context, name string, quantity int) error
	RestoreStock(ctx context.Context, name string, quantity int) error
}

// Pricer bundles what every session needs from the process.
type Pricer struct {
	Catalog    *logic.Catalog
	Calculator *logic.Calculator
	Builder    *logic.Builder
	Mirror     StockMirror
	Logger     *zap.Logger
}

// NewPricer wires a catalog and membership policy. mirror may be nil.
func NewPricer(catalog *logic.Catalog, membership logic.MembershipPolicy, mirror StockMirror, logger *zap.Logger) *Pricer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pricer{
		Catalog:    catalog,
		Calculator: logic.NewCalculator(membership),
		Builder:    logic.NewBuilder(),
		Mirror:     mirror,
		Logger:     logger,
	}
}

// Session is one customer's checkout.
type Session struct {
	ID     string
	pricer *Pricer
	cart   *logic.Cart
}

// Checkout is a confirmed purchase.
type Checkout struct {
	OrderID    string
	Membership bool
	Receipt    logic.Receipt
	CreatedAt  time.Time
}

// New starts an empty session.
func (p *Pricer) New() *Session {
	return &Session{ID: uuid.NewString(), pricer: p, cart: logic.NewCart()}
}

// Cart exposes the session cart.
func (s *Session) Cart() *logic.Cart { return s.cart }

// Add looks up name and appends a line for quantity paid units.
func (s *Session) Add(name string, quantity int) (logic.Line, error) {
	entry, err := s.pricer.Catalog.Lookup(name)
	if err != nil {
		return logic.Line{}, err
	}
	line, err := s.cart.AddItem(entry, quantity)
	if err != nil {
		return logic.Line{}, err
	}
	s.pricer.Logger.Debug("line added",
		zap.String("session", s.ID),
		zap.String("product", name),
		zap.Int("quantity", line.Quantity),
		zap.Int("free", line.Free))
	return line, nil
}

// Preview prices the cart without touching stock.
func (s *Session) Preview(membership bool) logic.Receipt {
	discounts := s.pricer.Calculator.Compute(s.cart, membership)
	return s.pricer.Builder.Build(s.cart, discounts)
}

// Confirm takes the cart's units out of stock, mirrors the decrement, and
// returns the receipt. Nothing stays decremented when it fails.
func (s *Session) Confirm(ctx context.Context, membership bool) (*Checkout, error) {
	if err := s.cart.Reserve(); err != nil {
		return nil, err
	}

	if err := s.mirror(ctx); err != nil {
		for _, line := range s.cart.Lines() {
			line.Entry.RestoreStock(line.Units())
		}
		return nil, err
	}

	out := &Checkout{
		OrderID:    s.ID,
		Membership: membership,
		Receipt:    s.Preview(membership),
		CreatedAt:  time.Now().UTC(),
	}
	s.pricer.Logger.Info("checkout confirmed",
		zap.String("order_id", out.OrderID),
		zap.Int("lines", s.cart.Len()),
		zap.Int64("net", out.Receipt.Net),
		zap.Bool("membership", membership))
	return out, nil
}

func (s *Session) mirror(ctx context.Context) error {
	m := s.pricer.Mirror
	if m == nil {
		return nil
	}
	lines := s.cart.Lines()
	for i, line := range lines {
		if err := m.DecrementStock(ctx, line.Entry.Name(), line.Units()); err != nil {
			for _, done := range lines[:i] {
				if rerr := m.RestoreStock(ctx, done.Entry.Name(), done.Units()); rerr != nil {
					s.pricer.Logger.Error("stock restore failed",
						zap.String("product", done.Entry.Name()),
						zap.Error(rerr))
				}
			}
			return fmt.Errorf("mirror stock for %s: %w", line.Entry.Name(), err)
		}
	}
	return nil
}
