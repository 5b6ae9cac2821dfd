package brokertx

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency is a 3-letter currency code, or free text carried through from
// the source document when the code is not a known ISO currency.
type Currency string

const (
	CAD Currency = "CAD"
	USD Currency = "USD"
)

// NewCurrency normalizes a raw currency cell to upper case.
func NewCurrency(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

// IsISO reports whether the code is a known ISO 4217 currency.
func (c Currency) IsISO() bool {
	return money.GetCurrency(string(c)) != nil
}

func (c Currency) String() string { return string(c) }
