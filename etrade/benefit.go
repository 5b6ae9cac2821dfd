package etrade

import (
	"fmt"

	"github.com/kgrenier/brokertx/date"
	"github.com/shopspring/decimal"
)

// Benefit models one equity compensation distribution: the acquisition of
// shares, plus an optional sell-to-cover leg where the broker sold a
// portion of them to pay withholding tax. The sell-to-cover dates are not
// printed on benefit forms; they are filled in later by matching trade
// confirmations.
type Benefit struct {
	Security string

	AcquireTradeDate  date.Date
	AcquireSettleDate date.Date
	AcquireSharePrice decimal.Decimal
	AcquireShares     decimal.Decimal

	StCTradeDate  *date.Date
	StCSettleDate *date.Date
	StCPrice      decimal.NullDecimal
	StCShares     decimal.NullDecimal
	StCFee        decimal.NullDecimal

	PlanNote string
	SellNote string
	Filename string
}

// SellToCover is the fully-resolved sell-to-cover leg of a benefit.
type SellToCover struct {
	TradeDate  date.Date
	SettleDate date.Date
	Price      decimal.Decimal
	Shares     decimal.Decimal
	Fee        decimal.Decimal
}

// SellToCoverData returns the sell-to-cover leg, or nil when the benefit
// has none. A partially-populated leg is an error.
func (b *Benefit) SellToCoverData() (*SellToCover, error) {
	set := 0
	for _, ok := range []bool{
		b.StCTradeDate != nil, b.StCSettleDate != nil,
		b.StCPrice.Valid, b.StCShares.Valid, b.StCFee.Valid,
	} {
		if ok {
			set++
		}
	}
	if set == 0 {
		return nil, nil
	}
	if set < 5 {
		return nil, fmt.Errorf(
			"Some, but not all, sell-to-cover fields were found for %s shares of %s acquired on %s",
			b.AcquireShares, b.Security, b.AcquireTradeDate)
	}
	return &SellToCover{
		TradeDate:  *b.StCTradeDate,
		SettleDate: *b.StCSettleDate,
		Price:      b.StCPrice.Decimal,
		Shares:     b.StCShares.Decimal,
		Fee:        b.StCFee.Decimal,
	}, nil
}

func nullDec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
