// Package etrade extracts transactions and equity compensation benefit
// entries from E*TRADE confirmation PDFs. A document is classified by
// layout markers into a release (RSU), exercise (ESO), purchase (ESPP), or
// trade confirmation, then parsed with layout-specific patterns.
package etrade

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/kgrenier/brokertx"
	"github.com/kgrenier/brokertx/date"
)

const brokerName = "E*TRADE"

func newAccount(number string) brokertx.Account {
	return brokertx.Account{Broker: brokerName, Number: number}
}

var (
	rsuPat        = regexp.MustCompile(`STOCK\s+PLAN\s+RELEASE\s+CONFIRMATION`)
	esoPat        = regexp.MustCompile(`STOCK\s+PLAN\s+EXERCISE\s+CONFIRMATION`)
	esppPat       = regexp.MustCompile(`Plan\s*(2014|ESP2)`)
	preMSConfPat  = regexp.MustCompile(`TRADE\s*CONFIRMATION`)
	postMSConfPat = regexp.MustCompile(`This\s+transaction\s+is\s+confirmed`)
)

// PDFContent is the classified result of one confirmation document.
// Exactly one of the two slices is populated.
type PDFContent struct {
	Benefits []Benefit
	Trades   []brokertx.Tx
}

// ParseText classifies and parses the text of one confirmation PDF.
// The RSU check runs before the ESPP check since release forms also name
// the plan.
func ParseText(text, filename string) (*PDFContent, error) {
	switch {
	case rsuPat.MatchString(text):
		b, err := parseRSUEntry(text, filename)
		if err != nil {
			return nil, err
		}
		return &PDFContent{Benefits: []Benefit{b}}, nil
	case esoPat.MatchString(text):
		bs, err := parseESOEntries(text, filename)
		if err != nil {
			return nil, err
		}
		return &PDFContent{Benefits: bs}, nil
	case esppPat.MatchString(text):
		b, err := parseESPPEntry(text, filename)
		if err != nil {
			return nil, err
		}
		return &PDFContent{Benefits: []Benefit{b}}, nil
	case preMSConfPat.MatchString(text):
		txs, err := parsePreMSTradeConfs(text, filename)
		if err != nil {
			return nil, err
		}
		return &PDFContent{Trades: txs}, nil
	case postMSConfPat.MatchString(text):
		tx, err := parsePostMSTradeConf(text, filename)
		if err != nil {
			return nil, err
		}
		return &PDFContent{Trades: []brokertx.Tx{tx}}, nil
	}
	return nil, errors.New("Cannot categorize layout of PDF")
}

// Common to every benefit layout.
type benefitCommon struct {
	employeeID    string
	accountNumber string
	symbol        string
}

func parseBenefitCommon(text string) (benefitCommon, error) {
	var c benefitCommon
	var fe fieldErrs
	c.employeeID = fe.str(srch(`Employee ID:\s*(\d+)`).str1(text))
	c.accountNumber = fe.str(srch(`Account (?:Number|Stock Plan \(\S+\) -)\s*(\d+)`).str1(text))
	c.symbol = fe.str(srchDotAll(`Company Name\s*\(Symbol\)*.*\(([A-Za-z\.]+)\)`).str1(text))
	return c, fe.err
}

// Benefit forms print dates like 10-20-2023, trade confirmations like
// 10/20/23 or 10/20/2023.
const (
	dashDateLayout  = "1-2-2006"
	slashDateLayout = "1/2/2006"
)

var shortSlashDatePat = regexp.MustCompile(`(\d+/\d+)/(\d+)`)

func parseDashDate(s string) (date.Date, error) {
	t, err := time.Parse(dashDateLayout, s)
	if err != nil {
		return date.Date{}, err
	}
	return date.FromTime(t), nil
}

func parseSlashDate(s string) (date.Date, error) {
	t, err := time.Parse(slashDateLayout, s)
	if err != nil {
		return date.Date{}, err
	}
	return date.FromTime(t), nil
}

// parseShortYearDate expands a two-digit year, assuming this century.
func parseShortYearDate(s string) (date.Date, error) {
	m := shortSlashDatePat.FindStringSubmatch(s)
	if m == nil {
		return date.Date{}, fmt.Errorf("failed to parse date: %q did not match %v",
			s, shortSlashDatePat)
	}
	return parseSlashDate(m[1] + "/20" + m[2])
}
