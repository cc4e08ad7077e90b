package logic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPromotion(t *testing.T, n int) Promotion {
	t.Helper()
	p, err := NewNPlusOne(n)
	require.NoError(t, err)
	return p
}

func TestNewNPlusOne_RejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := NewNPlusOne(n)
		if !errors.Is(err, ErrInvalidCatalog) {
			t.Errorf("expected ErrInvalidCatalog for N=%d, got %v", n, err)
		}
	}
}

func TestPromotion_PriceBelowThresholdIsFullPrice(t *testing.T) {
	p := mustPromotion(t, 3)
	for q := 1; q < 3; q++ {
		assert.Equal(t, int64(1000*q), p.Price(1000, q), "q=%d", q)
	}
}

func TestPromotion_PriceWholeGroupsPlusRemainder(t *testing.T) {
	p := mustPromotion(t, 2)

	// one group of two at 2000, one unit at 1000
	assert.Equal(t, int64(3000), p.Price(1000, 3))
	// two groups of two
	assert.Equal(t, int64(2*(2*1000)), p.Price(1000, 4))
	assert.Equal(t, int64(5000), p.Price(1000, 5))
}

func TestPromotion_FreeUnits(t *testing.T) {
	p := mustPromotion(t, 2)

	assert.Equal(t, 0, p.FreeUnits(1))
	assert.Equal(t, 1, p.FreeUnits(2))
	assert.Equal(t, 1, p.FreeUnits(3))
	assert.Equal(t, 2, p.FreeUnits(4))
}

func TestPromotion_ChargeableUnits(t *testing.T) {
	p := mustPromotion(t, 2)

	assert.Equal(t, 2, p.ChargeableUnits(2))
	assert.Equal(t, 2, p.ChargeableUnits(3))
	assert.Equal(t, 4, p.ChargeableUnits(6))
	assert.Equal(t, 5, p.ChargeableUnits(7))
}

func TestPromotion_Shortfall(t *testing.T) {
	two := mustPromotion(t, 2)
	assert.Equal(t, 1, two.Shortfall(1))
	assert.Equal(t, 0, two.Shortfall(2))
	assert.Equal(t, 1, two.Shortfall(3))

	three := mustPromotion(t, 3)
	assert.Equal(t, 2, three.Shortfall(1))
	assert.Equal(t, 1, three.Shortfall(2))
	assert.Equal(t, 0, three.Shortfall(6))
}

func TestPromotion_Kind(t *testing.T) {
	p := mustPromotion(t, 2)
	assert.Equal(t, PromotionNPlusOne, p.Kind())
	assert.Equal(t, 2, p.RequiredQuantity())
}
