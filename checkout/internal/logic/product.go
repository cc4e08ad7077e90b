package logic

import (
	"fmt"
	"sync"
)

// Entry is one product in the catalog. Name, price and promotion are fixed
// at load time; stock only goes down through DecrementStock.
type Entry struct {
	name      string
	unitPrice int64
	promotion *Promotion

	mu    sync.Mutex
	stock int
}

// NewEntry builds a catalog entry. promotion may be nil.
func NewEntry(name string, unitPrice int64, stock int, promotion *Promotion) (*Entry, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: product name is empty", ErrInvalidCatalog)
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("%w: %s has negative price %d", ErrInvalidCatalog, name, unitPrice)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: %s has negative stock %d", ErrInvalidCatalog, name, stock)
	}
	return &Entry{name: name, unitPrice: unitPrice, stock: stock, promotion: promotion}, nil
}

func (e *Entry) Name() string     { return e.name }
func (e *Entry) UnitPrice() int64 { return e.unitPrice }

// Promotion returns the attached promotion, or nil.
func (e *Entry) Promotion() *Promotion { return e.promotion }

// Stock returns the current stock level.
func (e *Entry) Stock() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock
}

// PriceFor returns the charge for quantity paid units.
func (e *Entry) PriceFor(quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: %s x%d", ErrInvalidQuantity, e.name, quantity)
	}
	if e.promotion == nil {
		return e.unitPrice * int64(quantity), nil
	}
	return e.promotion.Price(e.unitPrice, quantity), nil
}

// HasStock reports whether quantity units are available.
func (e *Entry) HasStock(quantity int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock >= quantity
}

// BonusFor returns the free units the promotion hands out with quantity
// paid units, never more than what is left on the shelf once reserved
// units (held by earlier lines of the same cart) and the paid units are
// taken.
func (e *Entry) BonusFor(quantity, reserved int) int {
	if e.promotion == nil || quantity <= 0 {
		return 0
	}
	free := e.promotion.FreeUnits(quantity)

	e.mu.Lock()
	left := e.stock - reserved - quantity
	e.mu.Unlock()

	if left < 0 {
		left = 0
	}
	if free > left {
		free = left
	}
	return free
}

// DecrementStock removes quantity units in one check-and-decrement step.
func (e *Entry) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %s x%d", ErrInvalidQuantity, e.name, quantity)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if quantity > e.stock {
		return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, e.name, e.stock, quantity)
	}
	e.stock -= quantity
	return nil
}

// RestoreStock puts back units taken by a DecrementStock that has to be
// undone, e.g. when a later line of the same checkout fails.
func (e *Entry) RestoreStock(quantity int) {
	if quantity <= 0 {
		return
	}
	e.mu.Lock()
	e.stock += quantity
	e.mu.Unlock()
}
