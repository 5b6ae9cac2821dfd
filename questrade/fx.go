package questrade

import (
	"strconv"

	"github.com/kgrenier/brokertx"
	"github.com/kgrenier/brokertx/config"
	"github.com/kgrenier/brokertx/date"
	"github.com/shopspring/decimal"
)

// fxLeg is one FXT row from the export: half of a currency conversion.
type fxLeg struct {
	row           int
	currency      brokertx.Currency
	affiliate     brokertx.Affiliate
	tradeDate     date.Date
	tradeDateTime string
	amount        decimal.Decimal
	account       brokertx.Account
}

// fxPairer collects FX legs and pairs them by trade date. FXT rows are
// exported in pairs, one CAD leg and one foreign leg; legs of the same day
// are paired two at a time in row order. It also accumulates the synthetic
// FX transactions implied by foreign-currency trades and income.
type fxPairer struct {
	prof *config.Profile
	legs []fxLeg
	txs  []brokertx.Tx
	errs *brokertx.ErrorList
}

func newFXPairer(prof *config.Profile, errs *brokertx.ErrorList) *fxPairer {
	return &fxPairer{prof: prof, errs: errs}
}

func (p *fxPairer) addFXT(leg fxLeg) {
	p.legs = append(p.legs, leg)
}

// addImplicit records the FX balance change caused by a trade settled in a
// foreign currency: a buy spends the currency, a sell earns it.
func (p *fxPairer) addImplicit(tx *brokertx.Tx) {
	amount := tx.AmountPerShare.Mul(tx.Shares)
	if tx.Action == brokertx.Buy {
		amount = amount.Neg()
	}
	amount = amount.Sub(tx.Commission)
	if amount.IsZero() {
		// Happens for stock distributions, which price at zero.
		return
	}

	fx, err := p.fxTx(tx.Currency, tx.TradeDate, tx.TradeDateTime, amount,
		tx.Affiliate, tx.Row, tx.Account, decimal.NullDecimal{},
		"from "+tx.Security+" "+string(tx.Action))
	if err != nil {
		p.errs.Add(err)
		return
	}
	p.txs = append(p.txs, fx)
}

// addIncome records a foreign-currency income payment, e.g. a USD dividend.
func (p *fxPairer) addIncome(cur brokertx.Currency, tradeDate date.Date,
	tradeDateTime string, amount decimal.Decimal, affiliate brokertx.Affiliate,
	row int, account brokertx.Account, memoExtra string) {
	fx, err := p.fxTx(cur, tradeDate, tradeDateTime, amount, affiliate, row,
		account, decimal.NullDecimal{}, memoExtra)
	if err != nil {
		p.errs.Add(err)
		return
	}
	p.txs = append(p.txs, fx)
}

// finish pairs the collected FXT legs and returns every accumulated FX
// transaction. Pairing failures are collected as row errors and yield no
// transactions for the failed pair.
func (p *fxPairer) finish() []brokertx.Tx {
	var order []date.Date
	groups := make(map[date.Date][]fxLeg)
	for _, leg := range p.legs {
		if _, ok := groups[leg.tradeDate]; !ok {
			order = append(order, leg.tradeDate)
		}
		groups[leg.tradeDate] = append(groups[leg.tradeDate], leg)
	}

	for _, day := range order {
		legs := groups[day]
		for i := 0; i+1 < len(legs); i += 2 {
			p.pair(legs[i], legs[i+1])
		}
		if len(legs)%2 != 0 {
			p.errs.Addf(legs[len(legs)-1].row, "Unpaired FXT")
		}
	}
	return p.txs
}

// pair validates two same-day legs and emits both as transactions. The
// computed rate is attached to the CAD leg only.
func (p *fxPairer) pair(a, b fxLeg) {
	cad, other := a, b
	if b.currency == brokertx.CAD {
		cad, other = b, a
	}
	if cad.currency != brokertx.CAD || other.currency == brokertx.CAD {
		p.errs.Addf(b.row,
			"FXTs not supported between %s and %s. Exactly one currency must be CAD.",
			cad.currency, other.currency)
		return
	}
	if cad.account != other.account || cad.affiliate != other.affiliate {
		p.errs.Addf(b.row, "adjacent FXT rows on %s were in different accounts", other.tradeDate)
		return
	}
	if cad.amount.IsZero() || other.amount.IsZero() {
		p.errs.Addf(b.row, "FXT amount was zero")
		return
	}
	if cad.amount.Mul(other.amount).IsPositive() {
		if cad.amount.IsPositive() {
			p.errs.Addf(b.row, "Both FXTs have positive amounts")
		} else {
			p.errs.Addf(b.row, "Both FXTs have negative amounts")
		}
		return
	}

	rate := cad.amount.Div(other.amount).Abs()

	foreignTx, err := p.fxTx(other.currency, other.tradeDate, other.tradeDateTime,
		other.amount, other.affiliate, other.row, other.account,
		decimal.NullDecimal{}, "FXT; CAD leg in row "+strconv.Itoa(cad.row))
	if err != nil {
		p.errs.Add(err)
		return
	}
	cadTx, err := p.fxTx(cad.currency, cad.tradeDate, cad.tradeDateTime,
		cad.amount, cad.affiliate, cad.row, cad.account,
		decimal.NullDecimal{Decimal: rate, Valid: true},
		"FXT; "+string(other.currency)+" leg in row "+strconv.Itoa(other.row))
	if err != nil {
		p.errs.Add(err)
		return
	}
	p.txs = append(p.txs, foreignTx, cadTx)
}

// fxTx builds one transaction in the pseudo-security "<CUR>.FX". The share
// count is the absolute converted amount at a price of 1; the sign of the
// amount picks the action. FX settles immediately and must sort buys before
// sells within a day to keep running balances non-negative.
func (p *fxPairer) fxTx(cur brokertx.Currency, tradeDate date.Date,
	tradeDateTime string, amount decimal.Decimal, affiliate brokertx.Affiliate,
	row int, account brokertx.Account, rate decimal.NullDecimal,
	memoExtra string) (brokertx.Tx, error) {

	if cur != brokertx.CAD && !p.prof.SupportedFX(string(cur)) {
		return brokertx.Tx{}, brokertx.Rowf(row, "FX currency %s not supported", cur)
	}

	action := brokertx.Buy
	tiebreak := 1
	if amount.IsNegative() {
		action = brokertx.Sell
		tiebreak = 2
	}
	return brokertx.Tx{
		Security:           string(cur) + ".FX",
		TradeDate:          tradeDate,
		SettlementDate:     tradeDate,
		TradeDateTime:      tradeDateTime,
		SettlementDateTime: tradeDateTime,
		Action:             action,
		AmountPerShare:     decimal.NewFromInt(1),
		Shares:             amount.Abs(),
		Commission:         decimal.Zero,
		Currency:           cur,
		Affiliate:          affiliate,
		Memo:               account.Memo() + "; " + memoExtra,
		ExchangeRate:       rate,
		Row:                row,
		Account:            account,
		SortTiebreak:       tiebreak,
	}, nil
}
