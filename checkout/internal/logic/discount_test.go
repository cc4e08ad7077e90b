package logic

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPromotionSavings_ZeroWithoutPromotions(t *testing.T) {
	cart := NewCart()
	cart.AddItem(plain(t, "Water", 500, 10), 4)
	cart.AddItem(plain(t, "Cola", 1000, 10), 2)

	calc := NewCalculator(DefaultMembershipPolicy())
	assert.Equal(t, int64(0), calc.PromotionSavings(cart))
}

func TestPromotionSavings_ValueOfBonusUnits(t *testing.T) {
	cart := NewCart()
	cart.AddItem(soda(t, 10), 3)
	cart.AddItem(plain(t, "Water", 500, 10), 2)
	cart.AddItem(soda(t, 10), 4)

	// one free Soda on the first line, two on the last
	calc := NewCalculator(DefaultMembershipPolicy())
	assert.Equal(t, int64(3000), calc.PromotionSavings(cart))
}

func TestMembershipSavings_OptOutIsZero(t *testing.T) {
	cart := NewCart()
	cart.AddItem(plain(t, "Cola", 1000, 100), 50)

	for _, policy := range []MembershipPolicy{
		DefaultMembershipPolicy(),
		{Kind: MembershipRate, Rate: decimal.RequireFromString("0.3")},
	} {
		calc := NewCalculator(policy)
		assert.Equal(t, int64(0), calc.MembershipSavings(cart, false))
	}
}

func TestMembershipSavings_Fixed(t *testing.T) {
	cart := NewCart()
	cart.AddItem(plain(t, "Cola", 1000, 10), 5)

	calc := NewCalculator(DefaultMembershipPolicy())
	assert.Equal(t, int64(3000), calc.MembershipSavings(cart, true))
}

func TestMembershipSavings_FixedNeverExceedsTotal(t *testing.T) {
	cart := NewCart()
	cart.AddItem(plain(t, "Gum", 500, 10), 1)

	calc := NewCalculator(DefaultMembershipPolicy())
	assert.Equal(t, int64(500), calc.MembershipSavings(cart, true))
}

func TestMembershipSavings_RateFloorsAndCaps(t *testing.T) {
	policy := MembershipPolicy{Kind: MembershipRate, Rate: decimal.RequireFromString("0.3"), Cap: 8000}
	calc := NewCalculator(policy)

	small := NewCart()
	small.AddItem(plain(t, "Chips", 3333, 10), 1)
	assert.Equal(t, int64(999), calc.MembershipSavings(small, true))

	big := NewCart()
	big.AddItem(plain(t, "Cola", 1000, 100), 50)
	assert.Equal(t, int64(8000), calc.MembershipSavings(big, true))
}

func TestMembershipSavings_AppliesToPostPromotionTotal(t *testing.T) {
	policy := MembershipPolicy{Kind: MembershipRate, Rate: decimal.RequireFromString("0.5")}
	calc := NewCalculator(policy)

	cart := NewCart()
	cart.AddItem(soda(t, 10), 3)

	assert.Equal(t, cart.Total()/2, calc.MembershipSavings(cart, true))
}

func TestCompute(t *testing.T) {
	cart := NewCart()
	cart.AddItem(soda(t, 10), 4)
	cart.AddItem(plain(t, "Water", 500, 10), 10)

	result := NewCalculator(DefaultMembershipPolicy()).Compute(cart, true)
	assert.Equal(t, DiscountResult{Promotion: 2000, Membership: 3000}, result)
}

func TestMembershipPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultMembershipPolicy().Validate())
	assert.NoError(t, MembershipPolicy{Kind: MembershipRate, Rate: decimal.RequireFromString("0.3")}.Validate())

	assert.Error(t, MembershipPolicy{Kind: MembershipFixed, Amount: -1}.Validate())
	assert.Error(t, MembershipPolicy{Kind: MembershipRate, Rate: decimal.RequireFromString("1.5")}.Validate())
	assert.Error(t, MembershipPolicy{Kind: MembershipRate, Rate: decimal.RequireFromString("0.1"), Cap: -5}.Validate())
	assert.Error(t, MembershipPolicy{Kind: "points"}.Validate())
}
