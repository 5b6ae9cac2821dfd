package etrade

import (
	"fmt"

	"github.com/kgrenier/brokertx"
	"github.com/shopspring/decimal"
)

// The subset search below is exponential in the candidate count. The 5-day
// window keeps it tiny in practice; the cap turns a pathological input into
// an error instead of a hang.
const maxCandidateTrades = 20

// stcWindowDays is how many days after the acquisition a sell-to-cover
// trade may settle its trade date.
const stcWindowDays = 5

// PDFData aggregates everything parsed from a set of confirmation PDFs.
type PDFData struct {
	Benefits []Benefit
	Trades   []brokertx.Tx
}

// Merge appends the contents of one parsed document.
func (d *PDFData) Merge(c *PDFContent) {
	d.Benefits = append(d.Benefits, c.Benefits...)
	d.Trades = append(d.Trades, c.Trades...)
}

// BenefitsAndTrades is the result of matching: benefits with their
// sell-to-cover dates filled in, and the trades no benefit claimed.
type BenefitsAndTrades struct {
	Benefits    []Benefit
	OtherTrades []brokertx.Tx
}

func benefitDesc(b *Benefit) string {
	return fmt.Sprintf("%s: %s %s", b.Filename, b.PlanNote, b.AcquireTradeDate)
}

// findSellToCoverTradeSet picks the subset of candidate trades whose share
// counts sum to the benefit's sell-to-cover count. candidates holds indices
// into pool. Exactly one subset may match; zero or several is an error.
// Larger subsets are enumerated first so the returned match is the largest
// when duplicate-sum singletons exist inside a matching pair.
func findSellToCoverTradeSet(b *Benefit, pool []brokertx.Tx, candidates []int) ([]int, error) {
	if len(candidates) > maxCandidateTrades {
		return nil, fmt.Errorf(
			"%d candidate trades for the sell-to-cover for %s exceeds the supported maximum of %d",
			len(candidates), benefitDesc(b), maxCandidateTrades)
	}
	want := b.StCShares.Decimal

	var matches [][]int
	for n := len(candidates); n >= 1; n-- {
		combinations(len(candidates), n, func(idxs []int) {
			sum := decimal.Zero
			for _, ci := range idxs {
				t := &pool[candidates[ci]]
				if t.Security != b.Security {
					return
				}
				sum = sum.Add(t.Shares)
			}
			if !sum.Equal(want) {
				return
			}
			match := make([]int, len(idxs))
			for i, ci := range idxs {
				match[i] = candidates[ci]
			}
			matches = append(matches, match)
		})
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf(
			"Found no trades matching the sell-to-cover for %s", benefitDesc(b))
	default:
		return nil, fmt.Errorf(
			"Multiple trade combinations could potentially constitute the sell-to-cover for %s",
			benefitDesc(b))
	}
}

// combinations calls fn with each k-element index combination of [0,n),
// in lexicographic order. The slice passed to fn is reused between calls.
func combinations(n, k int, fn func([]int)) {
	if k > n {
		return
	}
	idx := make([]int, k)
	var rec func(start, i int)
	rec = func(start, i int) {
		if i == k {
			fn(idx)
			return
		}
		for v := start; v <= n-(k-i); v++ {
			idx[i] = v
			rec(v+1, i+1)
		}
	}
	rec(0, 0)
}

// AmendBenefitSales fills each benefit's sell-to-cover dates from the
// available trade confirmations, consuming the matched trades so they
// cannot satisfy a second benefit. Benefits without a sell-to-cover section
// pass through untouched. All matching failures are collected; any failure
// means no result.
func AmendBenefitSales(data *PDFData) (*BenefitsAndTrades, []string, []error) {
	benefits := append([]Benefit(nil), data.Benefits...)
	leftover := append([]brokertx.Tx(nil), data.Trades...)

	var warnings []string
	var errs []error
	for bi := range benefits {
		b := &benefits[bi]
		if !b.StCShares.Valid {
			continue
		}

		// Any sell between the acquisition date and the window's end could
		// be part of the cover.
		windowEnd := b.AcquireTradeDate.Add(stcWindowDays)
		var candidates []int
		for ti := range leftover {
			t := &leftover[ti]
			if t.Action == brokertx.Sell &&
				!t.TradeDate.Before(b.AcquireTradeDate) &&
				!t.TradeDate.After(windowEnd) {
				candidates = append(candidates, ti)
			}
		}

		matched, err := findSellToCoverTradeSet(b, leftover, candidates)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		// The benefit dates come from the latest-dated matched trade.
		pick := matched[0]
		varying := false
		for _, ti := range matched {
			t, t0 := &leftover[ti], &leftover[matched[0]]
			if t.TradeDate != t0.TradeDate || t.SettlementDate != t0.SettlementDate {
				varying = true
			}
			if t.TradeDate.After(leftover[pick].TradeDate) {
				pick = ti
			}
		}
		if varying {
			warn := "sell-to-cover trades have varying dates:"
			for _, ti := range matched {
				t := &leftover[ti]
				warn += fmt.Sprintf("\n  TD: %s, SD: %s, shares of %s: %s",
					t.TradeDate, t.SettlementDate, t.Security, t.Shares)
			}
			warnings = append(warnings, warn)
		}
		td := leftover[pick].TradeDate
		sd := leftover[pick].SettlementDate
		b.StCTradeDate = &td
		b.StCSettleDate = &sd

		// matched is ascending; remove back to front to keep indices valid.
		for i := len(matched) - 1; i >= 0; i-- {
			ti := matched[i]
			leftover = append(leftover[:ti], leftover[ti+1:]...)
		}
	}

	if len(errs) > 0 {
		return nil, warnings, errs
	}
	return &BenefitsAndTrades{Benefits: benefits, OtherTrades: leftover}, warnings, nil
}

// TxsFromData expands benefits and leftover trades into transactions,
// sorted for output. Each benefit yields a buy for the acquisition and,
// when sell-to-cover data exists, a sell at the covered price with the fee
// as commission. Everything is in USD.
func TxsFromData(data *BenefitsAndTrades) ([]brokertx.Tx, error) {
	var txs []brokertx.Tx
	for i := range data.Benefits {
		b := &data.Benefits[i]
		txs = append(txs, brokertx.Tx{
			Security:       b.Security,
			TradeDate:      b.AcquireTradeDate,
			SettlementDate: b.AcquireSettleDate,
			Action:         brokertx.Buy,
			AmountPerShare: b.AcquireSharePrice,
			Shares:         b.AcquireShares,
			Commission:     decimal.Zero,
			Currency:       brokertx.USD,
			Memo:           b.PlanNote,
			Row:            i * 2,
			Filename:       b.Filename,
		})

		stc, err := b.SellToCoverData()
		if err != nil {
			return nil, err
		}
		if stc == nil {
			continue
		}
		sellNote := b.SellNote
		if sellNote == "" {
			sellNote = "sell-to-cover"
		}
		txs = append(txs, brokertx.Tx{
			Security:       b.Security,
			TradeDate:      stc.TradeDate,
			SettlementDate: stc.SettleDate,
			Action:         brokertx.Sell,
			AmountPerShare: stc.Price,
			Shares:         stc.Shares,
			Commission:     stc.Fee,
			Currency:       brokertx.USD,
			Memo:           b.PlanNote + " " + sellNote,
			Row:            i*2 + 1,
			Filename:       b.Filename,
		})
	}

	base := len(txs)
	for i, t := range data.OtherTrades {
		if t.Memo != "" {
			t.Memo += " "
		}
		t.Memo += "(manual trade)"
		t.Row = base + i
		txs = append(txs, t)
	}

	brokertx.Sort(txs)
	return txs, nil
}
