package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"convenience_store/checkout/internal/logic"
)

// PromotionRow is one parsed `name-requiredQuantity` line.
type PromotionRow struct {
	Line             string
	Name             string
	RequiredQuantity int
}

// ParseProducts reads `name,price,stock` lines. Blank lines are skipped and
// a leading header row (non-numeric price) is ignored.
func ParseProducts(r io.Reader) ([]logic.EntryData, error) {
	var rows []logic.EntryData
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			return nil, fmt.Errorf("products line %d: expected name,price,stock: %q", lineNo, line)
		}
		name := strings.TrimSpace(fields[0])
		price, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			if len(rows) == 0 && lineNo == 1 {
				continue
			}
			return nil, fmt.Errorf("products line %d: bad price %q: %w", lineNo, fields[1], err)
		}
		stock, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("products line %d: bad stock %q: %w", lineNo, fields[2], err)
		}

		rows = append(rows, logic.EntryData{Name: name, UnitPrice: price, Stock: stock})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return rows, nil
}

// ParsePromotions reads `name-requiredQuantity` lines. The quantity follows
// the last dash so names may contain dashes themselves.
func ParsePromotions(r io.Reader) ([]PromotionRow, error) {
	var rows []PromotionRow
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cut := strings.LastIndex(line, "-")
		if cut <= 0 {
			return nil, fmt.Errorf("promotions line %d: expected name-quantity: %q", lineNo, line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(line[cut+1:]))
		if err != nil {
			return nil, fmt.Errorf("promotions line %d: bad quantity: %w", lineNo, err)
		}

		rows = append(rows, PromotionRow{Line: line, Name: strings.TrimSpace(line[:cut]), RequiredQuantity: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read promotions: %w", err)
	}
	return rows, nil
}

// MatchPromotions attaches promotions to products. An exact name wins;
// otherwise the first promotion line containing the product name is used.
func MatchPromotions(products []logic.EntryData, promotions []PromotionRow) map[string]int {
	matched := make(map[string]int)
	for _, p := range products {
		for _, promo := range promotions {
			if promo.Name == p.Name {
				matched[p.Name] = promo.RequiredQuantity
				break
			}
		}
		if _, ok := matched[p.Name]; ok {
			continue
		}
		for _, promo := range promotions {
			if strings.Contains(promo.Line, p.Name) {
				matched[p.Name] = promo.RequiredQuantity
				break
			}
		}
	}
	return matched
}

// LoadFiles builds a catalog from a products file and an optional
// promotions file (empty path means no promotions).
func LoadFiles(productsPath, promotionsPath string) (*logic.Catalog, error) {
	pf, err := os.Open(productsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open products: %w", err)
	}
	defer pf.Close()

	products, err := ParseProducts(pf)
	if err != nil {
		return nil, err
	}

	var promotions []PromotionRow
	if promotionsPath != "" {
		mf, err := os.Open(promotionsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open promotions: %w", err)
		}
		defer mf.Close()

		promotions, err = ParsePromotions(mf)
		if err != nil {
			return nil, err
		}
	}

	return logic.LoadCatalog(products, MatchPromotions(products, promotions))
}
