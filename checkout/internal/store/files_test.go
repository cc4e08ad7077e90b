package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"convenience_store/checkout/internal/logic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducts(t *testing.T) {
	input := "name,price,quantity\nSoda,1000,10\n\nWater, 500 , 0\n"
	rows, err := ParseProducts(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []logic.EntryData{
		{Name: "Soda", UnitPrice: 1000, Stock: 10},
		{Name: "Water", UnitPrice: 500, Stock: 0},
	}, rows)
}

func TestParseProducts_Errors(t *testing.T) {
	_, err := ParseProducts(strings.NewReader("Soda,1000\n"))
	assert.Error(t, err)

	_, err = ParseProducts(strings.NewReader("Soda,1000,10\nWater,cheap,1\n"))
	assert.Error(t, err)

	_, err = ParseProducts(strings.NewReader("Soda,1000,many\n"))
	assert.Error(t, err)
}

func TestParsePromotions(t *testing.T) {
	rows, err := ParsePromotions(strings.NewReader("Soda-2\nEnergy-Bar-1\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Soda", rows[0].Name)
	assert.Equal(t, 2, rows[0].RequiredQuantity)
	assert.Equal(t, "Energy-Bar", rows[1].Name)
	assert.Equal(t, 1, rows[1].RequiredQuantity)

	_, err = ParsePromotions(strings.NewReader("Soda\n"))
	assert.Error(t, err)
	_, err = ParsePromotions(strings.NewReader("Soda-x\n"))
	assert.Error(t, err)
}

func TestMatchPromotions(t *testing.T) {
	products := []logic.EntryData{{Name: "Cola"}, {Name: "Zero Cola"}, {Name: "Water"}}
	promos := []PromotionRow{
		{Line: "Zero Cola-1", Name: "Zero Cola", RequiredQuantity: 1},
		{Line: "Cola-2", Name: "Cola", RequiredQuantity: 2},
	}

	matched := MatchPromotions(products, promos)
	assert.Equal(t, map[string]int{"Cola": 2, "Zero Cola": 1}, matched)
}

func TestMatchPromotions_SubstringFallback(t *testing.T) {
	products := []logic.EntryData{{Name: "Chips"}}
	promos := []PromotionRow{{Line: "Potato Chips-2", Name: "Potato Chips", RequiredQuantity: 2}}

	assert.Equal(t, map[string]int{"Chips": 2}, MatchPromotions(products, promos))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	products := filepath.Join(dir, "products.md")
	promotions := filepath.Join(dir, "promotions.md")
	require.NoError(t, os.WriteFile(products, []byte("Soda,1000,10\nWater,500,5\n"), 0o644))
	require.NoError(t, os.WriteFile(promotions, []byte("Soda-2\n"), 0o644))

	catalog, err := LoadFiles(products, promotions)
	require.NoError(t, err)

	soda, err := catalog.Lookup("Soda")
	require.NoError(t, err)
	require.NotNil(t, soda.Promotion())
	assert.Equal(t, 2, soda.Promotion().RequiredQuantity())

	withoutPromos, err := LoadFiles(products, "")
	require.NoError(t, err)
	plainSoda, _ := withoutPromos.Lookup("Soda")
	assert.Nil(t, plainSoda.Promotion())

	_, err = LoadFiles(filepath.Join(dir, "missing.md"), "")
	assert.Error(t, err)
}

func TestLoadFiles_BundledData(t *testing.T) {
	catalog, err := LoadFiles("../../data/products.md", "../../data/promotions.md")
	require.NoError(t, err)
	assert.NotEmpty(t, catalog.Entries())
}
