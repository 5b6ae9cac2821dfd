package brokertx

import (
	"testing"

	"github.com/kgrenier/brokertx/date"
	"github.com/shopspring/decimal"
)

func TestSortStable(t *testing.T) {
	d := date.MustParse
	txs := []Tx{
		{Security: "B", SettlementDate: d("2024-01-12"), SettlementDateTime: "2024-01-12", Row: 3},
		{Security: "A", SettlementDate: d("2024-01-10"), SettlementDateTime: "2024-01-10", Row: 2},
		{Security: "C", SettlementDate: d("2024-01-10"), SettlementDateTime: "2024-01-10", Row: 4},
	}
	Sort(txs)
	got := txs[0].Security + txs[1].Security + txs[2].Security
	if got != "ACB" {
		t.Errorf("sorted order = %s, want ACB", got)
	}
}

func TestSortTiebreakOrdersFXBuysFirst(t *testing.T) {
	d := date.MustParse
	txs := []Tx{
		{Security: "USD.FX", Action: Sell, SettlementDate: d("2024-01-10"), SettlementDateTime: "2024-01-10", Row: 5, SortTiebreak: 2},
		{Security: "USD.FX", Action: Buy, SettlementDate: d("2024-01-10"), SettlementDateTime: "2024-01-10", Row: 6, SortTiebreak: 1},
	}
	Sort(txs)
	if txs[0].Action != Buy {
		t.Errorf("first tx = %v, want Buy", txs[0].Action)
	}
}

func TestParseLargeDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "1,234,567.89", want: "1234567.89"},
		{in: "- 1 234.5", want: "-1234.5"},
		{in: "65.9", want: "65.9"},
		{in: "abc", err: true},
		{in: "", err: true},
	}
	for _, tc := range tests {
		got, err := ParseLargeDecimal(tc.in)
		if (err != nil) != tc.err {
			t.Errorf("ParseLargeDecimal(%q) error = %v, want error %v", tc.in, err, tc.err)
			continue
		}
		if err == nil && !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseLargeDecimal(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{
		"Buy": Buy, "SELL": Sell, "Sold Short": Sell, "Bought": Buy,
	} {
		got, err := ParseAction(in)
		if err != nil || got != want {
			t.Errorf("ParseAction(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseAction("Journal"); err == nil {
		t.Error("ParseAction accepted Journal")
	}
}

func TestCurrency(t *testing.T) {
	if c := NewCurrency(" usd "); c != USD {
		t.Errorf("NewCurrency = %q", c)
	}
	if !USD.IsISO() || !CAD.IsISO() {
		t.Error("USD/CAD should be ISO currencies")
	}
	if NewCurrency("XXQ").IsISO() {
		t.Error("XXQ should not be an ISO currency")
	}
}

func TestAccountMemo(t *testing.T) {
	a := Account{Broker: "Questrade", Type: "Individual TFSA", Number: "12345678"}
	if got := a.Memo(); got != "Questrade Individual TFSA 12345678" {
		t.Errorf("Memo = %q", got)
	}
	if got := a.String(); got != "Individual TFSA 12345678" {
		t.Errorf("String = %q", got)
	}
}
