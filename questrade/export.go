// Package questrade parses Questrade account exports and statements: the
// activity spreadsheet export into ACB transactions, and the monthly
// statement's securities-owned table into fair market values.
package questrade

import (
	"regexp"
	"strings"

	"github.com/kgrenier/brokertx"
	"github.com/kgrenier/brokertx/config"
	"github.com/kgrenier/brokertx/date"
	"github.com/kgrenier/brokertx/sheet"
	"github.com/shopspring/decimal"
)

const brokerName = "Questrade"

// Export column names:
//
//	Transaction Date, Settlement Date, Action, Symbol, Description,
//	Quantity, Price, Gross Amount, Commission, Net Amount, Currency,
//	Account #, Activity Type, Account Type
var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// allowedActions are the action codes converted into transactions.
// Anything else must be in the profile's ignored set or it is a row error.
var allowedActions = map[string]bool{
	"BUY": true, "SELL": true, "DIS": true, "LIQ": true, "FXT": true, "DIV": true,
}

// ParseExport converts the rows of an activity export into transactions.
// Row-level failures are collected and returned alongside the transactions
// that did parse; the final error is fatal (unusable sheet, no output).
func ParseExport(rows [][]string, prof *config.Profile, filename string) ([]brokertx.Tx, []error, error) {
	r, err := sheet.NewReader(rows)
	if err != nil {
		return nil, nil, err
	}

	var errs brokertx.ErrorList
	pairer := newFXPairer(prof, &errs)
	var txs []brokertx.Tx

	for i := 0; i < r.Len(); i++ {
		tx, ok := parseRow(r, i, prof, pairer, filename, &errs)
		if !ok {
			continue
		}
		txs = append(txs, tx)
		if tx.Currency != brokertx.CAD {
			pairer.addImplicit(&tx)
		}
	}

	txs = append(txs, pairer.finish()...)
	return txs, errs.Errors(), nil
}

// parseRow converts one data row. It returns ok=false when the row is
// skipped, whether silently (ignored actions, FXT and DIV rows routed to
// the pairer) or with errors collected in errs.
func parseRow(r *sheet.Reader, i int, prof *config.Profile, pairer *fxPairer,
	filename string, errs *brokertx.ErrorList) (brokertx.Tx, bool) {

	row := r.RowNum(i)
	fail := func(err error) (brokertx.Tx, bool) {
		errs.Add(err)
		return brokertx.Tx{}, false
	}

	actionRaw, err := r.Str(i, "Action")
	if err != nil {
		return fail(brokertx.Rowf(row, "%s", err))
	}
	code := strings.ToUpper(strings.TrimSpace(actionRaw))
	if !allowedActions[code] && !prof.IgnoredAction(code) {
		return fail(brokertx.Rowf(row, "Unrecognized transaction action %s in row %d", actionRaw, row))
	}
	if prof.IgnoredAction(code) {
		return brokertx.Tx{}, false
	}

	tradeRaw, err := r.Str(i, "Transaction Date")
	if err != nil {
		return fail(brokertx.Rowf(row, "%s", err))
	}
	tradeDate, err := parseExportDate(row, tradeRaw)
	if err != nil {
		return fail(err)
	}
	settleRaw, err := r.Str(i, "Settlement Date")
	if err != nil {
		return fail(brokertx.Rowf(row, "%s", err))
	}
	settleDate, err := parseExportDate(row, settleRaw)
	if err != nil {
		return fail(err)
	}

	accountType, _ := r.Str(i, "Account Type")
	accountNum, _ := r.Str(i, "Account #")
	account := brokertx.Account{Broker: brokerName, Type: accountType, Number: accountNum}
	affiliate := brokertx.AffiliateDefault
	if prof.IsRegistered(accountType) {
		affiliate = brokertx.AffiliateRegistered
	}

	currencyRaw, err := r.Str(i, "Currency")
	if err != nil {
		return fail(brokertx.Rowf(row, "%s", err))
	}
	currency := brokertx.NewCurrency(currencyRaw)

	if code == "FXT" {
		amount, err := r.Dec(i, "Net Amount")
		if err != nil {
			return fail(brokertx.Rowf(row, "%s", err))
		}
		pairer.addFXT(fxLeg{
			row:           row,
			currency:      currency,
			affiliate:     affiliate,
			tradeDate:     tradeDate,
			tradeDateTime: tradeRaw,
			amount:        amount,
			account:       account,
		})
		return brokertx.Tx{}, false
	}

	symbol, err := r.Str(i, "Symbol")
	if err != nil {
		return fail(brokertx.Rowf(row, "%s", err))
	}
	if symbol == "" {
		return fail(brokertx.Rowf(row, "Symbol was empty"))
	}

	if code == "DIV" {
		if currency == brokertx.USD {
			amount, err := r.Dec(i, "Net Amount")
			if err != nil {
				return fail(brokertx.Rowf(row, "%s", err))
			}
			pairer.addIncome(currency, tradeDate, tradeRaw, amount, affiliate,
				row, account, "DIV from "+symbol)
		}
		return brokertx.Tx{}, false
	}

	txAction := brokertx.Buy
	convertedNote := ""
	switch code {
	case "BUY":
	case "SELL":
		txAction = brokertx.Sell
	case "DIS":
		// Stock distributions are free purchases; the amount will be zero.
		convertedNote = "; From DIS action."
	case "LIQ":
		txAction = brokertx.Sell
		convertedNote = "; From LIQ action."
	}

	aliasNote := ""
	if alias, ok := prof.SymbolAliases[symbol]; ok {
		aliasNote = symbol + " AKA " + alias.AKA + ". "
		symbol = alias.Symbol
	}

	quantity, err := r.Int(i, "Quantity")
	var rowErrs []error
	if err != nil {
		rowErrs = append(rowErrs, brokertx.Rowf(row, "%s", err))
	}
	price, err := r.Dec(i, "Price")
	if err != nil {
		rowErrs = append(rowErrs, brokertx.Rowf(row, "%s", err))
	}
	commission, err := r.Dec(i, "Commission")
	if err != nil {
		rowErrs = append(rowErrs, brokertx.Rowf(row, "%s", err))
	}
	if len(rowErrs) > 0 {
		for _, e := range rowErrs {
			errs.Add(e)
		}
		return brokertx.Tx{}, false
	}

	shares := decimal.NewFromInt(int64(quantity)).Abs()
	return brokertx.Tx{
		Security:           symbol,
		TradeDate:          tradeDate,
		SettlementDate:     settleDate,
		TradeDateTime:      tradeRaw,
		SettlementDateTime: settleRaw,
		Action:             txAction,
		AmountPerShare:     price,
		Shares:             shares,
		Commission:         commission.Abs(),
		Currency:           currency,
		Affiliate:          affiliate,
		Memo:               aliasNote + account.Memo() + convertedNote,
		Row:                row,
		Account:            account,
		Filename:           filename,
	}, true
}

func parseExportDate(row int, raw string) (date.Date, error) {
	m := datePrefix.FindString(raw)
	if m == "" {
		return date.Date{}, brokertx.Rowf(row, "Could not parse date from %q", raw)
	}
	d, err := date.Parse(m)
	if err != nil {
		return date.Date{}, brokertx.Rowf(row, "Could not parse date from %q", raw)
	}
	return d, nil
}
