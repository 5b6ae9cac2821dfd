package etrade

import (
	"strings"
	"testing"

	"github.com/kgrenier/brokertx"
	"github.com/kgrenier/brokertx/date"
	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func checkDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(t, want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func checkNullDec(t *testing.T, name string, got decimal.NullDecimal, want string) {
	t.Helper()
	if !got.Valid {
		t.Errorf("%s not set, want %s", name, want)
		return
	}
	checkDec(t, name, got.Decimal, want)
}

const rsuText = ` Release Summary

            Account Number 11223344
            Tax Payment Method Sell-to-cover
            Company Name (Symbol) Foo Inc.
            (FOO)
            Award Number R98765
            Award Date 05-08-2020
            Award Type RSU
            Plan 2014
            Release Date 10-20-2023
            Shares Released 1,234.0000
            Market Value Per Share $215.350000
            Award Price Per Share $0.000000
            Sale Price Per Share $213.773300

            Release Details

            Calculation of Gain
            Market Value $26,488.05
            Award Price ($0.00)
            Total Gain $26,488.05

            Stock Distribution
            Award Shares 123.0000
            Shares Sold (67.0000)
            Shares Issued 56.0000

            Registration: Morgan Stanley Smith Barney
            Calculation of Taxes
            Taxable Gain $ Rate % Amount $
            Canada-BC 26,488.05 53.500 14,171.10
            Total Tax $14,171.10

            Cash Distribution
            Total Sale Price $14,322.81
            Total Tax ($14,171.10)
            Fee ($4.13)
            Total Due Participant $147.58

            EMPLOYEE STOCK PLAN RELEASE CONFIRMATION
            Provided by Foo Inc.
            John Doe
            Employee ID: 1111
            `

func TestParseRSU(t *testing.T) {
	content, err := ParseText(rsuText, "myrsu.pdf")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if len(content.Benefits) != 1 || len(content.Trades) != 0 {
		t.Fatalf("content = %+v", content)
	}
	b := content.Benefits[0]
	if b.Security != "FOO" {
		t.Errorf("security = %q", b.Security)
	}
	if b.AcquireTradeDate.String() != "2023-10-20" || b.AcquireSettleDate.String() != "2023-10-20" {
		t.Errorf("acquire dates = %s %s", b.AcquireTradeDate, b.AcquireSettleDate)
	}
	checkDec(t, "acquire price", b.AcquireSharePrice, "215.35")
	checkDec(t, "acquire shares", b.AcquireShares, "1234")
	if b.StCTradeDate != nil || b.StCSettleDate != nil {
		t.Errorf("sell-to-cover dates should be unset before matching")
	}
	checkNullDec(t, "stc price", b.StCPrice, "213.7733")
	checkNullDec(t, "stc shares", b.StCShares, "67")
	checkNullDec(t, "stc fee", b.StCFee, "4.13")
	if b.PlanNote != "RSU R98765" || b.SellNote != "" {
		t.Errorf("notes = %q %q", b.PlanNote, b.SellNote)
	}
	if b.Filename != "myrsu.pdf" {
		t.Errorf("filename = %q", b.Filename)
	}
}

const esoText = `
        Order Number 12345678
        Account Stock Plan (FOO) -0112
        Order Type Same-Day Sale
        Company Name (Symbol) FOO COMPANY,
        INC.(FOO)
        Shares Exercised 1002
        Shares Sold 1002
        Price Type Market
        Limit Price N/A
        Term Good for Day
         Gross Proceeds $12,345.67
        Total Price ($1,234.56)
        Commission ($4.95)
        Sec Fee ($0.11)
        Broker Assist Fee ($0.00)
        Disbursement Fee ($0.00)
        Taxes Withheld ($2,345.67)
        Net Proceeds $23,456.78

         Exercise Details

        Exercise Date: 10/20/2024 Exercise Type: Same-Day Sale Registration:
        Grant 1 Grant 2
        Grant Date 1/1/2012 2/2/2013
        Grant Number 1234 1235
        Grant Type Nonqual Nonqual
        Grant Price $3.33 $4.44
        Sale Price $1,001.00 $1,001.00
        Exercise Market Value $1,000.00 $2,000.00
        Shares Exercised 100 200
        Shares Sold 31 91
        Total Gain $7,234.12 $10,101.11
        Taxable Gain $7,234.12 $10,101.11
        Gross Proceeds $9,876.54 $15,000.23
        Total Price $1,234.00 $123.32
        Comission/Fee $10.00 $11.00
        EMPLOYEE STOCK PLAN EXERCISE CONFIRMATION
        NO BODY
        1234 MAIN ST
        HALIFAX, NS B3D 8
         Employee ID: 1111
`

func TestParseESO(t *testing.T) {
	content, err := ParseText(esoText, "myeso.pdf")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if len(content.Benefits) != 2 {
		t.Fatalf("got %d benefits, want one per grant", len(content.Benefits))
	}

	first, last := content.Benefits[0], content.Benefits[1]
	if first.PlanNote != "Option Grant 1234" || last.PlanNote != "Option Grant 1235" {
		t.Errorf("plan notes = %q %q", first.PlanNote, last.PlanNote)
	}
	checkDec(t, "first acquire price", first.AcquireSharePrice, "1000")
	checkDec(t, "first acquire shares", first.AcquireShares, "100")
	if first.StCTradeDate != nil || first.StCShares.Valid {
		t.Errorf("consolidated sell-to-cover should only be on the last grant")
	}
	if first.SellNote != "Same-Day Sale" {
		t.Errorf("sell note = %q", first.SellNote)
	}

	checkDec(t, "last acquire price", last.AcquireSharePrice, "2000")
	checkDec(t, "last acquire shares", last.AcquireShares, "200")
	if last.StCTradeDate == nil || last.StCTradeDate.String() != "2024-10-20" {
		t.Errorf("last stc trade date = %v", last.StCTradeDate)
	}
	checkNullDec(t, "last stc price", last.StCPrice, "1001")
	checkNullDec(t, "last stc shares", last.StCShares, "1002")
	checkNullDec(t, "last stc fee", last.StCFee, "21")
}

func TestParseESOUnequalSalePrices(t *testing.T) {
	text := strings.Replace(esoText,
		"Sale Price $1,001.00 $1,001.00",
		"Sale Price $1,001.00 $2,001.00", 1)
	_, err := ParseText(text, "myeso.pdf")
	if err == nil || !strings.Contains(err.Error(), "Non-equal ESO sale prices") {
		t.Errorf("err = %v", err)
	}
}

const esppText = ` Purchase Summary

        Account Number 11223344
        Company Name (Symbol) Foo Systems,
        INC.(FOO)
        Plan ESP2
        Grant Date 08-01-2022
        Purchase Begin Date 01-01-2023
        Purchase Date 10-20-2023
        Shares Purchased to Date in Current Offering
        Beginning Balance 0.0000
        Shares Purchased 123.0000
        Total shares Purchased for Offering 124.0000
        Shares Deposited in STREETNAME to
        ETRADE 124.0000

        Shares Sold to Cover Taxes 67.0000

        Purchase Details

        Contributions
        Foreign Contributions 1,000,000.00
        Average Exchange Rate $0.740000
        Previous Carry Forward $0.00
        Current Contributions $0.00
        Total Contributions $0.00*

        Total Price ($5,000.00)
        Carry Forward ($0.00)

        Calculation of Gain
        Total Value $1,000,000.00
        Total Price ($1,000,000.00)
        Taxable Gain $1,000,000.00
        Calculation of Shares Purchased
        Grant Date Market Value $10.990
        Purchase Value per Share $215.350000
        Purchase Price per Share
                (90.000% of $215.350000) $193.81500
        Total Price
                (Shares Purchased x Purchase Price) $1,000,000.00
        Sale Price for Shares Sold to Cover Taxes $213.773300

        Tax Assessment $1,840.84 Fees ($4.13)
        Adjusted Tax Assessment $1,000,000.00
        Amount in Excess of Tax Due $0.00

        Excess of Taxes Applied To

        Cash Due Participant

        Net Carry Forward $0.00

        EMPLOYEE STOCK PLAN PURCHASE CONFIRMATION
        Provided by Foo Inc.
        John Doe
        Employee ID: 1111
        `

func TestParseESPP(t *testing.T) {
	content, err := ParseText(esppText, "myespp.pdf")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	b := content.Benefits[0]
	if b.Security != "FOO" || b.PlanNote != "ESPP" {
		t.Errorf("security=%q plan=%q", b.Security, b.PlanNote)
	}
	if b.AcquireTradeDate.String() != "2023-10-20" {
		t.Errorf("acquire date = %s", b.AcquireTradeDate)
	}
	checkDec(t, "acquire price", b.AcquireSharePrice, "215.35")
	checkDec(t, "acquire shares", b.AcquireShares, "123")
	checkNullDec(t, "stc price", b.StCPrice, "213.7733")
	checkNullDec(t, "stc shares", b.StCShares, "67")
	checkNullDec(t, "stc fee", b.StCFee, "4.13")
}

func TestParseESPPNoSellToCover(t *testing.T) {
	// No sell-to-cover section at all.
	text := ` Purchase Summary

        Account Number 11223344
        Company Name (Symbol) Foo Systems,
        INC.(FOO)
        Plan ESP2
        Grant Date 08-01-2022
        Purchase Begin Date 01-01-2023
        Purchase Date 10-20-2023
        Shares Purchased to Date in Current Offering
        Beginning Balance 0.0000
        Shares Purchased 123.0000
        Total shares Purchased for Offering 124.0000
        Shares Deposited in STREETNAME to
        ETRADE 124.0000

        Total Price ($5,000.00)

        Calculation of Gain
        Total Value $1,000,000.00
        Total Price ($1,000,000.00)
        Taxable Gain $1,000,000.00
        Calculation of Shares Purchased
        Grant Date Market Value $10.990
        Purchase Value per Share $215.350000
        Purchase Price per Share
                (90.000% of $215.350000) $193.81500
        Total Price
                (Shares Purchased x Purchase Price) $1,000,000.00


        EMPLOYEE STOCK PLAN PURCHASE CONFIRMATION
        Employee ID: 1111
        `
	content, err := ParseText(text, "myespp.pdf")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	b := content.Benefits[0]
	if b.StCPrice.Valid || b.StCShares.Valid || b.StCFee.Valid {
		t.Errorf("benefit should have no sell-to-cover data: %+v", b)
	}
	stc, err := b.SellToCoverData()
	if err != nil || stc != nil {
		t.Errorf("SellToCoverData = %v, %v", stc, err)
	}
}

const preMSConfText = `
            E*TRADE Securities LLC
            P.O. Box 484
            Jersey City, NJ 07303-0484

            Account Number: XXXX-9876
            Use This Deposit Slip Acct: XXXX-9876

            Investment Account

            John Doe
            Employee ID: 1111
            TRADE CONFIRMATION

            Page 1 of 2

            TRADE
            DATE SETL
            DATE MKT /
            CPT SYMBOL /
            CUSIP BUY /
            SELL QUANTITY PRICE ACCT
            TYPE
            02/20/23 02/22/23 6 1 FOO SELL 6 $120.01 Stock Plan PRINCIPAL $720.06
            FOOSYSTEMS INC COM COMMISSION $20.05
            FEE $0.02
            NET AMOUNT $740.13

            02/20/23 02/22/23 6 1 FOO SELL 1 $120.011 Stock Plan PRINCIPAL $120.01
            FOOSYSTEMS INC COM FEE $0.01
            NET AMOUNT $120.02

            JOHN DOE
            1 BLAH DR
            VANCOUVER BCHOH OHO
            CANADA
            `

func TestParsePreMSTradeConfirmations(t *testing.T) {
	content, err := ParseText(preMSConfText, "tconf.pdf")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if len(content.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(content.Trades))
	}

	tx := content.Trades[0]
	if tx.Security != "FOO" || tx.Action != brokertx.Sell {
		t.Errorf("tx = %s %s", tx.Action, tx.Security)
	}
	if tx.TradeDate.String() != "2023-02-20" || tx.SettlementDate.String() != "2023-02-22" {
		t.Errorf("dates = %s %s", tx.TradeDate, tx.SettlementDate)
	}
	if tx.TradeDateTime != "02/20/23" {
		t.Errorf("trade date time = %q", tx.TradeDateTime)
	}
	checkDec(t, "price", tx.AmountPerShare, "120.01")
	checkDec(t, "shares", tx.Shares, "6")
	checkDec(t, "commission", tx.Commission, "20.07")
	if tx.Currency != brokertx.USD {
		t.Errorf("currency = %s", tx.Currency)
	}
	if tx.Account.Number != "XXXX-9876" || tx.Account.Broker != "E*TRADE" {
		t.Errorf("account = %+v", tx.Account)
	}
	if tx.Row != 1 {
		t.Errorf("row = %d", tx.Row)
	}

	tx = content.Trades[1]
	checkDec(t, "price", tx.AmountPerShare, "120.011")
	checkDec(t, "shares", tx.Shares, "1")
	checkDec(t, "commission", tx.Commission, "0.01")
	if tx.Row != 2 {
		t.Errorf("row = %d", tx.Row)
	}
}

func TestParsePostMSTradeConfirmation(t *testing.T) {
	text := `
            Morgan Stanley Smith Barney LLC. Member SIPC. The transaction(s) may have been executed with Morgan Stanley & Co. LLC, an
            affiliate, which may receive compensation for any such services. E*TRADE is a business of Morgan Stanley.
            1 of 2Your Account Number: 123-XXX123-123
            Account Type - Cash
            John Doe
            E*TRADE from Morgan Stanley
            P.O. BOX 484
            JERSEY CITY, NJ 07303-0484
            (800)-387-2331
            This transaction is confirmed in accordance with the information provided on the Conditions and Disclosures page.
            Trade Date Settlement Date Quantity Price Settlement Amount
            11/01/2023 11/03/2023 123 200.01
            Transaction Type: Sold Short
            Description: FOOSYSTEMS INC
            Symbol / CUSIP / ISIN: FOO / 123456789 / US0123456789Principal $24,601.23
            Commission $3.91
            Supplemental
            Transaction Fee $0.21
            Net Amount $24,605.35
            Unsolicited trade
            Morgan Stanley Smith Barney LLC acted as agent.
            `
	content, err := ParseText(text, "tconf.pdf")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if len(content.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(content.Trades))
	}
	tx := content.Trades[0]
	if tx.Security != "FOO" || tx.Action != brokertx.Sell {
		t.Errorf("tx = %s %s", tx.Action, tx.Security)
	}
	if tx.TradeDate.String() != "2023-11-01" || tx.SettlementDate.String() != "2023-11-03" {
		t.Errorf("dates = %s %s", tx.TradeDate, tx.SettlementDate)
	}
	checkDec(t, "price", tx.AmountPerShare, "200.01")
	checkDec(t, "shares", tx.Shares, "123")
	checkDec(t, "commission", tx.Commission, "4.12")
	if tx.Account.Number != "123-XXX123-123" {
		t.Errorf("account = %+v", tx.Account)
	}
}

func TestParseTextUnknownLayout(t *testing.T) {
	_, err := ParseText("an unrelated document", "mystery.pdf")
	if err == nil || err.Error() != "Cannot categorize layout of PDF" {
		t.Errorf("err = %v", err)
	}
}

func TestSellToCoverDataPartial(t *testing.T) {
	d := date.New(2024, 1, 10)
	b := Benefit{
		Security:          "FOO",
		AcquireTradeDate:  d,
		AcquireSettleDate: d,
		AcquireShares:     dec(t, "100"),
		StCShares:         nullDec(dec(t, "50")),
	}
	_, err := b.SellToCoverData()
	if err == nil || !strings.Contains(err.Error(), "Some, but not all, sell-to-cover fields") {
		t.Errorf("err = %v", err)
	}
}
