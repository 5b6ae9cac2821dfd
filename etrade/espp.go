package etrade

import (
	"github.com/shopspring/decimal"
)

// esppData carries every field of a purchase confirmation. The sale fields
// only appear when shares were sold to cover the purchase tax.
type esppData struct {
	common                benefitCommon
	sharesPurchased       decimal.Decimal
	fmvPerShare           decimal.Decimal
	purchasePricePerShare decimal.Decimal
	totalPrice            decimal.Decimal
	totalValue            decimal.Decimal
	taxableGain           decimal.Decimal
	marketValueAtGrant    decimal.Decimal

	totalTax          decimal.NullDecimal
	sharesSold        decimal.NullDecimal
	salePricePerShare decimal.NullDecimal
	totalSalePrice    decimal.NullDecimal
	fee               decimal.NullDecimal
	cashLeftover      decimal.NullDecimal
}

func parseESPPEntry(text, filename string) (Benefit, error) {
	var fe fieldErrs
	d := esppData{
		sharesPurchased: fe.dec(srch(`Shares Purchased\s*(\d+\.\d+)`).dec1(text)),
		fmvPerShare:     fe.dec(srch(`Purchase Value per Share\s*\$(\d+\.\d+)`).dec1(text)),
		purchasePricePerShare: fe.dec(
			srchDotAll(`Purchase Price per Share\s*\([^\)]*\)\s*\$(\d+\.\d+)`).dec1(text)),
		totalPrice:         fe.dec(srch(`Total Price\s*\(\$([\d,]+\.\d+)\)`).dec1(text)),
		totalValue:         fe.dec(srch(`Total Value\s*\$([\d,]+\.\d+)`).dec1(text)),
		taxableGain:        fe.dec(srch(`Taxable Gain\s*\$([\d,]+\.\d+)`).dec1(text)),
		marketValueAtGrant: fe.dec(srch(`Market Value\s*\$([\d,]+\.\d+)`).dec1(text)),

		totalTax: fe.optDec(
			srch(`Total Taxes Collected at purchase\s\(\$([\d,]+\.\d+)\)`).optDec1(text)),
		sharesSold: fe.optDec(srch(`Shares Sold to Cover Taxes\s*(\d+\.\d+)`).optDec1(text)),
		salePricePerShare: fe.optDec(
			srch(`Sale Price for Shares Sold to Cover Taxes\s*\$(\d+\.\d+)`).optDec1(text)),
		totalSalePrice: fe.optDec(srch(`Value Of Shares Sold\s\$([\d,]+\.\d+)`).optDec1(text)),
		fee:            fe.optDec(srch(`Fees\s*\(\$(\d+\.\d+)`).optDec1(text)),
		cashLeftover:   fe.optDec(srch(`Amount in Excess of Tax Due\s\$(\d+\.\d+)`).optDec1(text)),
	}
	if fe.err != nil {
		return Benefit{}, fe.err
	}

	var err error
	if d.common, err = parseBenefitCommon(text); err != nil {
		return Benefit{}, err
	}
	purchaseRaw, err := srch(`Purchase Date\s*(\d+-\d+-\d+)`).str1(text)
	if err != nil {
		return Benefit{}, err
	}
	purchaseDate, err := parseDashDate(purchaseRaw)
	if err != nil {
		return Benefit{}, err
	}

	return Benefit{
		Security:          d.common.symbol,
		AcquireTradeDate:  purchaseDate,
		AcquireSettleDate: purchaseDate,
		AcquireSharePrice: d.fmvPerShare,
		AcquireShares:     d.sharesPurchased,

		StCPrice:  d.salePricePerShare,
		StCShares: d.sharesSold,
		StCFee:    d.fee,

		PlanNote: "ESPP",
		Filename: filename,
	}, nil
}
