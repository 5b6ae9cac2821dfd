package brokertx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kgrenier/brokertx/date"
	"github.com/shopspring/decimal"
)

// Action is the direction of a transaction.
type Action string

const (
	Buy  Action = "Buy"
	Sell Action = "Sell"
)

// ParseAction recognizes the action keywords that appear in broker
// documents. Trade confirmations use phrasings like "Sold Short", so any
// token starting with buy/bought or sell/sold is accepted.
func ParseAction(s string) (Action, error) {
	switch {
	case strings.HasPrefix(strings.ToUpper(s), "BUY"),
		strings.HasPrefix(strings.ToUpper(s), "BOUGHT"):
		return Buy, nil
	case strings.HasPrefix(strings.ToUpper(s), "SELL"),
		strings.HasPrefix(strings.ToUpper(s), "SOLD"):
		return Sell, nil
	}
	return "", fmt.Errorf("unrecognized action %q", s)
}

// Affiliate tags the tax treatment of the holding account.
type Affiliate string

const (
	AffiliateDefault    Affiliate = ""
	AffiliateRegistered Affiliate = "(R)"
)

// Account identifies the brokerage account a transaction came from.
type Account struct {
	Broker string
	Type   string
	Number string
}

// String returns "<type> <number>", the form used by account filters.
func (a Account) String() string {
	return strings.TrimSpace(a.Type + " " + a.Number)
}

// Memo returns the provenance string written into transaction memos.
func (a Account) Memo() string {
	return strings.TrimSpace(a.Broker + " " + a.String())
}

// Tx is one executed trade or benefit event, normalized from any broker
// source. Shares, AmountPerShare and Commission are always non-negative;
// direction lives in Action.
type Tx struct {
	Security       string
	TradeDate      date.Date
	SettlementDate date.Date

	// Raw date-and-time strings as they appeared in the source document.
	// Used purely as sort keys, since true settlement time may be date-only.
	TradeDateTime      string
	SettlementDateTime string

	Action         Action
	AmountPerShare decimal.Decimal
	Shares         decimal.Decimal
	Commission     decimal.Decimal
	Currency       Currency
	Affiliate      Affiliate
	Memo           string
	ExchangeRate   decimal.NullDecimal

	Row     int
	Account Account
	// Orders FX buys before FX sells on the same day. Zero means unset;
	// only compared when both transactions carry one.
	SortTiebreak int
	Filename     string
}

// Less orders transactions by settlement date, then by the raw settlement
// date-and-time string, then by tiebreak, then by source row.
func (t *Tx) Less(o *Tx) bool {
	if !t.SettlementDate.Equal(o.SettlementDate) {
		return t.SettlementDate.Before(o.SettlementDate)
	}
	if t.SettlementDateTime != o.SettlementDateTime {
		return t.SettlementDateTime < o.SettlementDateTime
	}
	if t.SortTiebreak != 0 && o.SortTiebreak != 0 && t.SortTiebreak != o.SortTiebreak {
		return t.SortTiebreak < o.SortTiebreak
	}
	return t.Row < o.Row
}

// Sort orders transactions in place, stably, by their date-and-time keys.
func Sort(txs []Tx) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Less(&txs[j]) })
}
