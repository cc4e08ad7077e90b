package logic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MembershipKind selects how the membership discount is computed.
type MembershipKind string

const (
	MembershipFixed MembershipKind = "fixed"
	MembershipRate  MembershipKind = "rate"
)

// MembershipPolicy is the configurable membership discount.
// Fixed takes Amount off; Rate takes Rate (0..1) of the post-promotion
// total, floored, and limited to Cap when Cap > 0.
type MembershipPolicy struct {
	Kind   MembershipKind
	Amount int64
	Rate   decimal.Decimal
	Cap    int64
}

// DefaultMembershipPolicy is a flat 3000 off.
func DefaultMembershipPolicy() MembershipPolicy {
	return MembershipPolicy{Kind: MembershipFixed, Amount: 3000}
}

// Validate checks the policy values.
func (p MembershipPolicy) Validate() error {
	switch p.Kind {
	case MembershipFixed:
		if p.Amount < 0 {
			return fmt.Errorf("membership amount cannot be negative: %d", p.Amount)
		}
	case MembershipRate:
		if p.Rate.IsNegative() || p.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("membership rate must be between 0 and 1: %s", p.Rate)
		}
		if p.Cap < 0 {
			return fmt.Errorf("membership cap cannot be negative: %d", p.Cap)
		}
	default:
		return fmt.Errorf("unknown membership kind %q", p.Kind)
	}
	return nil
}

// DiscountResult is what one checkout saves.
type DiscountResult struct {
	Promotion  int64
	Membership int64
}

// Calculator computes discounts from cart state. It never mutates the cart.
type Calculator struct {
	membership MembershipPolicy
}

// NewCalculator builds a calculator for the given membership policy.
func NewCalculator(membership MembershipPolicy) *Calculator {
	return &Calculator{membership: membership}
}

// PromotionSavings sums, over promoted lines, the list value of the units
// handed out minus what is charged for the paid units.
func (c *Calculator) PromotionSavings(cart *Cart) int64 {
	var saved int64
	for _, line := range cart.Lines() {
		if line.Entry.Promotion() == nil {
			continue
		}
		charged, _ := line.Entry.PriceFor(line.Quantity)
		saved += line.Entry.UnitPrice()*int64(line.Units()) - charged
	}
	return saved
}

// MembershipSavings applies the membership policy to the post-promotion
// total. Zero unless optedIn; never more than that total.
func (c *Calculator) MembershipSavings(cart *Cart, optedIn bool) int64 {
	if !optedIn {
		return 0
	}
	base := cart.Total()

	var saved int64
	switch c.membership.Kind {
	case MembershipFixed:
		saved = c.membership.Amount
	case MembershipRate:
		saved = decimal.NewFromInt(base).Mul(c.membership.Rate).Floor().IntPart()
		if c.membership.Cap > 0 && saved > c.membership.Cap {
			saved = c.membership.Cap
		}
	}

	if saved > base {
		saved = base
	}
	if saved < 0 {
		saved = 0
	}
	return saved
}

// Compute returns both discounts for a checkout.
func (c *Calculator) Compute(cart *Cart, optedIn bool) DiscountResult {
	return DiscountResult{
		Promotion:  c.PromotionSavings(cart),
		Membership: c.MembershipSavings(cart, optedIn),
	}
}
