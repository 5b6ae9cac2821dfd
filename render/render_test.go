package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/kgrenier/brokertx"
	"github.com/kgrenier/brokertx/date"
	"github.com/shopspring/decimal"
)

func sampleTx() brokertx.Tx {
	rate := decimal.NullDecimal{Decimal: decimal.RequireFromString("1.3"), Valid: true}
	return brokertx.Tx{
		Security:           "SPXT",
		TradeDate:          date.MustParse("2021-01-14"),
		SettlementDate:     date.MustParse("2021-01-19"),
		SettlementDateTime: "2021-01-19",
		Action:             brokertx.Buy,
		AmountPerShare:     decimal.RequireFromString("65.9"),
		Shares:             decimal.NewFromInt(150),
		Commission:         decimal.Zero,
		Currency:           brokertx.USD,
		Memo:               "Questrade Individual margin 123",
		ExchangeRate:       rate,
	}
}

func TestCSV(t *testing.T) {
	var b strings.Builder
	if err := CSV(&b, []brokertx.Tx{sampleTx()}); err != nil {
		t.Fatal(err)
	}
	want := "Security,Trade Date,Settlement Date,Action,Amount/Share,Shares,Commission,Currency,Affiliate,Memo,Exchange Rate\n" +
		"SPXT,2021-01-14,2021-01-19,Buy,65.9,150,0,USD,,Questrade Individual margin 123,1.3\n"
	if b.String() != want {
		t.Errorf("CSV output:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestCSVQuotesOnlyWhenNeeded(t *testing.T) {
	tx := sampleTx()
	tx.Memo = "note, with a comma"
	var b strings.Builder
	if err := CSV(&b, []brokertx.Tx{tx}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `"note, with a comma"`) {
		t.Errorf("memo with comma not quoted:\n%s", b.String())
	}
	if strings.Contains(b.String(), `"SPXT"`) {
		t.Errorf("plain field was quoted:\n%s", b.String())
	}
}

func TestEmptyExchangeRate(t *testing.T) {
	tx := sampleTx()
	tx.ExchangeRate = decimal.NullDecimal{}
	row := Row(&tx)
	if row[len(row)-1] != "" {
		t.Errorf("absent exchange rate rendered as %q, want empty", row[len(row)-1])
	}
}

func TestTableAlignment(t *testing.T) {
	var b strings.Builder
	Table(&b, []string{"a", "bb"}, [][]string{{"xxx", "y"}})
	want := "a  |bb\nxxx|y \n"
	if b.String() != want {
		t.Errorf("Table output %q, want %q", b.String(), want)
	}
}

func TestErrors(t *testing.T) {
	var b strings.Builder
	Errors(&b, nil)
	if b.Len() != 0 {
		t.Errorf("Errors wrote %q for empty list", b.String())
	}
	Errors(&b, []error{errors.New("first"), errors.New("second")})
	want := "\nErrors:\n - first\n - second\n"
	if b.String() != want {
		t.Errorf("Errors output %q, want %q", b.String(), want)
	}
}
