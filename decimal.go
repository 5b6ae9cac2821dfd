package brokertx

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseLargeDecimal parses a numeric string that may carry thousands
// separators or embedded spaces, e.g. "1,234,567.89" or "- 1 234.5".
// A leading minus sign is honored.
func ParseLargeDecimal(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot convert %q to decimal", s)
	}
	return d, nil
}
