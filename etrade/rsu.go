package etrade

import (
	"github.com/shopspring/decimal"
)

// rsuData carries every field of a release confirmation. Several are not
// used downstream but extracting them validates the document shape.
type rsuData struct {
	common            benefitCommon
	awardNumber       string
	sharesReleased    decimal.Decimal
	sharesSold        decimal.Decimal
	sharesIssued      decimal.Decimal
	fmvPerShare       decimal.Decimal
	salePricePerShare decimal.Decimal
	marketValue       decimal.Decimal
	totalSalePrice    decimal.Decimal
	totalTax          decimal.Decimal
	fee               decimal.Decimal
	cashLeftover      decimal.Decimal
}

func parseRSUEntry(text, filename string) (Benefit, error) {
	var fe fieldErrs
	d := rsuData{
		awardNumber:       fe.str(srch(`Award Number\s*(R\d+)`).str1(text)),
		sharesReleased:    fe.dec(extractNumeric("Shares Released", false, text)),
		sharesSold:        fe.dec(extractNumeric("Shares Sold", true, text)),
		sharesIssued:      fe.dec(extractNumeric("Shares Issued", false, text)),
		fmvPerShare:       fe.dec(extractCurrency("Market Value Per Share", false, text)),
		salePricePerShare: fe.dec(extractCurrency("Sale Price Per Share", false, text)),
		marketValue:       fe.dec(extractCurrency("Market Value", false, text)),
		totalSalePrice:    fe.dec(extractCurrency("Total Sale Price", false, text)),
		totalTax:          fe.dec(extractCurrency("Total Tax", false, text)),
		fee:               fe.dec(extractCurrency("Fee", true, text)),
		cashLeftover:      fe.dec(extractCurrency("Total Due Participant", false, text)),
	}
	if fe.err != nil {
		return Benefit{}, fe.err
	}

	var err error
	if d.common, err = parseBenefitCommon(text); err != nil {
		return Benefit{}, err
	}
	releaseRaw, err := srch(`Release Date\s*(\d+-\d+-\d+)`).str1(text)
	if err != nil {
		return Benefit{}, err
	}
	releaseDate, err := parseDashDate(releaseRaw)
	if err != nil {
		return Benefit{}, err
	}

	return Benefit{
		Security: d.common.symbol,
		// The market value is quoted for the release date, so treat that as
		// the trade date. The actual settlement date is unknowable from the
		// form; releases never straddle year end, so reuse the release date.
		AcquireTradeDate:  releaseDate,
		AcquireSettleDate: releaseDate,
		AcquireSharePrice: d.fmvPerShare,
		AcquireShares:     d.sharesReleased,

		// The sell-to-cover dates come later from trade confirmations.
		StCPrice:  nullDec(d.salePricePerShare),
		StCShares: nullDec(d.sharesSold),
		StCFee:    nullDec(d.fee),

		PlanNote: "RSU " + d.awardNumber,
		Filename: filename,
	}, nil
}
