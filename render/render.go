// Package render serializes transaction records to the ACB CSV format,
// to aligned text tables, and emits collected row errors.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/kgrenier/brokertx"
)

// Header is the ACB CSV column order.
func Header() []string {
	return []string{
		"Security", "Trade Date", "Settlement Date", "Action", "Amount/Share",
		"Shares", "Commission", "Currency", "Affiliate", "Memo", "Exchange Rate",
	}
}

// Row returns the ACB field tuple for one transaction. The exchange rate
// renders as the empty string when absent.
func Row(t *brokertx.Tx) []string {
	rate := ""
	if t.ExchangeRate.Valid {
		rate = t.ExchangeRate.Decimal.String()
	}
	return []string{
		t.Security,
		t.TradeDate.String(),
		t.SettlementDate.String(),
		string(t.Action),
		t.AmountPerShare.String(),
		t.Shares.String(),
		t.Commission.String(),
		string(t.Currency),
		string(t.Affiliate),
		t.Memo,
		rate,
	}
}

// CSV writes the header and one row per transaction with minimal quoting.
func CSV(w io.Writer, txs []brokertx.Tx) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for i := range txs {
		if err := cw.Write(Row(&txs[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Table writes header and rows as a text table, each column padded to its
// maximum observed width and joined with "|".
func Table(w io.Writer, header []string, rows [][]string) {
	all := append([][]string{header}, rows...)
	widths := make([]int, len(header))
	for i := range widths {
		widths[i] = 1
	}
	for _, row := range all {
		for i, col := range row {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}
	for _, row := range all {
		cells := make([]string, len(row))
		for i, col := range row {
			cells[i] = fmt.Sprintf("%-*s", widths[i], col)
		}
		fmt.Fprintln(w, strings.Join(cells, "|"))
	}
}

// TxTable renders transactions as an aligned text table.
func TxTable(w io.Writer, txs []brokertx.Tx) {
	rows := make([][]string, 0, len(txs))
	for i := range txs {
		rows = append(rows, Row(&txs[i]))
	}
	Table(w, Header(), rows)
}

// Errors writes the error block: a blank line, "Errors:", then one
// " - <message>" line per error in encounter order. Nothing is written
// when errs is empty.
func Errors(w io.Writer, errs []error) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Errors:")
	for _, err := range errs {
		fmt.Fprintf(w, " - %s\n", err)
	}
}
