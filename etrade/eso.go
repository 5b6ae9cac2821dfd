package etrade

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/kgrenier/brokertx/date"
	"github.com/shopspring/decimal"
)

// Exercise confirmations lay out one column per exercised grant, with the
// consolidated totals (shares sold, proceeds) in the header above the
// "Exercise Details" section.
var (
	esoBodyPat = regexp.MustCompile(
		`(?s)^(.*)(Exercise Details.*(?:Exercise Date|EMPLOYEE STOCK PLAN EXERCISE CONFIRMATION)).*$`)
	esoGrantMarkerPat = regexp.MustCompile(`Grant (\d+)`)
)

type esoGrant struct {
	number          string
	exerciseFMV     decimal.Decimal
	sharesExercised decimal.Decimal
	salePrice       decimal.Decimal
	fee             decimal.Decimal
}

type esoData struct {
	common       benefitCommon
	exerciseType string
	exerciseDate date.Date
	sharesSold   decimal.Decimal
	grants       []esoGrant
}

func parseESOData(text string) (*esoData, error) {
	m := esoBodyPat.FindStringSubmatch(text)
	if m == nil {
		return nil, errors.New("Unable to parse exercise details")
	}
	header, body := m[1], m[2]

	grantMarkers := esoGrantMarkerPat.FindAllString(body, -1)
	numbers, err := searchRows("Grant Number", `\d+`, body)
	if err != nil {
		return nil, err
	}
	fmvs, err := searchDecRows("Exercise Market Value", true, false, body)
	if err != nil {
		return nil, err
	}
	shares, err := searchDecRows("Shares Exercised", false, false, body)
	if err != nil {
		return nil, err
	}
	salePrices, err := searchDecRows("Sale Price", true, false, body)
	if err != nil {
		return nil, err
	}
	// "Comission/Fee" is how the form itself spells it.
	fees, err := searchDecRows("Comission/Fee", true, false, body)
	if err != nil {
		return nil, err
	}

	n := len(grantMarkers)
	for _, l := range []int{len(numbers), len(fmvs), len(shares), len(salePrices), len(fees)} {
		if l < n {
			n = l
		}
	}
	grants := make([]esoGrant, 0, n)
	for i := 0; i < n; i++ {
		grants = append(grants, esoGrant{
			number:          numbers[i],
			exerciseFMV:     fmvs[i],
			sharesExercised: shares[i],
			salePrice:       salePrices[i],
			fee:             fees[i],
		})
	}

	d := &esoData{grants: grants}
	if d.common, err = parseBenefitCommon(text); err != nil {
		return nil, err
	}
	if d.exerciseType, err = srch(`Exercise Type:\s+(.*)\s+Registration`).str1(text); err != nil {
		return nil, err
	}
	exerciseRaw, err := srch(`Exercise Date:\s+(\d+/\d+/\d+)`).str1(text)
	if err != nil {
		return nil, err
	}
	if d.exerciseDate, err = parseSlashDate(exerciseRaw); err != nil {
		return nil, err
	}
	if d.sharesSold, err = extractNumeric("Shares Sold", false, header); err != nil {
		return nil, err
	}
	return d, nil
}

// parseESOEntries yields one benefit per exercised grant. The form
// consolidates the sold shares and dates across grants, so those land on
// the final grant's entry only.
func parseESOEntries(text, filename string) ([]Benefit, error) {
	d, err := parseESOData(text)
	if err != nil {
		return nil, err
	}
	if len(d.grants) == 0 {
		return nil, fmt.Errorf("No exercised grants found in %s", filename)
	}

	last := d.grants[len(d.grants)-1]
	feeSum := decimal.Zero
	for _, g := range d.grants {
		feeSum = feeSum.Add(g.fee)
	}

	entries := make([]Benefit, 0, len(d.grants))
	for i, g := range d.grants {
		if !g.salePrice.Equal(last.salePrice) {
			return nil, fmt.Errorf("Non-equal ESO sale prices %s and %s",
				g.salePrice, last.salePrice)
		}

		b := Benefit{
			Security:          d.common.symbol,
			AcquireTradeDate:  d.exerciseDate,
			AcquireSettleDate: d.exerciseDate,
			AcquireSharePrice: g.exerciseFMV,
			AcquireShares:     g.sharesExercised,
			PlanNote:          "Option Grant " + g.number,
			SellNote:          d.exerciseType,
			Filename:          filename,
		}
		if i == len(d.grants)-1 {
			exDate := d.exerciseDate
			b.StCTradeDate = &exDate
			b.StCSettleDate = &exDate
			b.StCPrice = nullDec(g.salePrice)
			b.StCShares = nullDec(d.sharesSold)
			b.StCFee = nullDec(feeSum)
		}
		entries = append(entries, b)
	}
	return entries, nil
}
