package logic

import "fmt"

// PromotionKind identifies how a promotion adjusts a price.
type PromotionKind string

const (
	// PromotionNPlusOne hands out one free unit for every N units bought.
	PromotionNPlusOne PromotionKind = "N_PLUS_ONE"
)

// Promotion is an immutable "buy N get 1 free" rule.
type Promotion struct {
	kind             PromotionKind
	requiredQuantity int
}

// NewNPlusOne builds an N+1 promotion. requiredQuantity must be positive.
func NewNPlusOne(requiredQuantity int) (Promotion, error) {
	if requiredQuantity <= 0 {
		return Promotion{}, fmt.Errorf("%w: promotion required quantity %d", ErrInvalidCatalog, requiredQuantity)
	}
	return Promotion{kind: PromotionNPlusOne, requiredQuantity: requiredQuantity}, nil
}

// Kind returns the promotion kind.
func (p Promotion) Kind() PromotionKind { return p.kind }

// RequiredQuantity returns N, the number of paid units per free unit.
func (p Promotion) RequiredQuantity() int { return p.requiredQuantity }

// Price charges quantity in whole groups of N at the group price plus the
// remainder at the unit price. A partial group is never prorated.
func (p Promotion) Price(unitPrice int64, quantity int) int64 {
	n := p.requiredQuantity
	groupPrice := int64(n) * unitPrice
	return int64(quantity/n)*groupPrice + int64(quantity%n)*unitPrice
}

// FreeUnits is the number of bonus units earned by quantity paid units.
// It is not capped by stock; see Entry.BonusFor.
func (p Promotion) FreeUnits(quantity int) int {
	if quantity < p.requiredQuantity {
		return 0
	}
	return quantity / p.requiredQuantity
}

// ChargeableUnits is the number of units to charge when quantity already
// includes the bonus units handed out with it. It is a public query for
// callers that only know the units handed out; carts price paid quantities
// with Price and never call it.
func (p Promotion) ChargeableUnits(quantity int) int {
	return quantity - quantity/(p.requiredQuantity+1)
}

// Shortfall is how many more paid units complete the next group.
// Zero when quantity is already a whole number of groups.
func (p Promotion) Shortfall(quantity int) int {
	rem := quantity % p.requiredQuantity
	if rem == 0 {
		return 0
	}
	return p.requiredQuantity - rem
}
