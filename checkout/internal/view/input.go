package view

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Input errors shown to the customer before re-prompting.
var (
	ErrInvalidFormat = errors.New("[ERROR] 올바르지 않은 형식으로 입력했습니다. 다시 입력해 주세요.")
	ErrInvalidAnswer = errors.New("[ERROR] Y 또는 N으로 입력해 주세요.")
	ErrNoSuchProduct = errors.New("[ERROR] 존재하지 않는 상품입니다. 다시 입력해 주세요.")
	ErrOverStock     = errors.New("[ERROR] 재고 수량을 초과하여 구매할 수 없습니다. 다시 입력해 주세요.")
)

// Request is one `[name-qty]` item the customer typed.
type Request struct {
	Name     string
	Quantity int
}

var itemPattern = regexp.MustCompile(`^\[(.+)-(\d+)\]$`)

// ParsePurchase reads `[name-qty],[name-qty]`.
func ParsePurchase(line string) ([]Request, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, ErrInvalidFormat
	}

	var out []Request
	for _, part := range strings.Split(line, ",") {
		m := itemPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, ErrInvalidFormat
		}
		qty, err := strconv.Atoi(m[2])
		if err != nil || qty <= 0 {
			return nil, ErrInvalidFormat
		}
		out = append(out, Request{Name: strings.TrimSpace(m[1]), Quantity: qty})
	}
	return out, nil
}

// ParseYesNo accepts Y or N in either case.
func ParseYesNo(line string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(line)) {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, ErrInvalidAnswer
}
