package etrade

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/kgrenier/brokertx"
	"github.com/shopspring/decimal"
)

var accountNumberPat = regexp.MustCompile(`Account\s+Number:\s*(\S+)\s`)

// Pre Morgan Stanley layout (mid 2023 and earlier). Each sale is a block of
// lines ending in a NET AMOUNT line, with optional COMMISSION and FEE lines
// in between.
var preMSTradePat = regexp.MustCompile(
	`(?P<txdate>\d+/\d+/\d+)\s+(?P<sdate>\d+/\d+/\d+)\s+` +
		`(?P<mkt>\d+)\s*(?P<cpt>\d+)\s+` +
		`(?P<sym>\S+)\s+(?P<act>\S+)\s+(?P<nshares>\d+)\s+\$(?P<price>\d+\.\d+)[^\n]*\n` +
		`[^\n]*(COMMISSION\s+\$(?P<commission>\d+\.\d+)[^\n]*\n)?` +
		`[^\n]*(FEE\s+\$(?P<fee>\d+\.\d+)[^\n]*\n)?` +
		`[^\n]*NET\s+AMOUNT`)

// Post Morgan Stanley layout (mid 2023 and later). One trade per document.
var postMSTradePat = regexp.MustCompile(
	`Trade\s+Date\s+Settlement\s+Date\s+Quantity\s+Price\s+Settlement\s+Amount\s+` +
		`(?P<txdate>\d+/\d+/\d+)\s+(?P<sdate>\d+/\d+/\d+)\s+(?P<nshares>\d+)\s+` +
		`(?P<price>\d+\.\d+)\s+` +
		`Transaction\s+Type:\s*(?P<act>\S.*\S)\s*` +
		`Description.*\n.*ISIN:\s*(?P<sym>\S+)` +
		`([\s\S]*Commission\s+\$(?P<commission>\d+\.\d+))?` +
		`([\s\S]*Transaction\s+Fee\s+\$(?P<fee>\d+\.\d+))?`)

type capturedTrade struct {
	m  []string
	re *regexp.Regexp
}

func (c capturedTrade) group(name string) string {
	return c.m[c.re.SubexpIndex(name)]
}

func (c capturedTrade) decGroup(name string) (decimal.Decimal, error) {
	return brokertx.ParseLargeDecimal(c.group(name))
}

// optDecGroup returns zero when the group did not participate in the match.
func (c capturedTrade) optDecGroup(name string) (decimal.Decimal, error) {
	v := c.group(name)
	if v == "" {
		return decimal.Zero, nil
	}
	return brokertx.ParseLargeDecimal(v)
}

func (c capturedTrade) commission() (decimal.Decimal, error) {
	com, err := c.optDecGroup("commission")
	if err != nil {
		return decimal.Decimal{}, err
	}
	fee, err := c.optDecGroup("fee")
	if err != nil {
		return decimal.Decimal{}, err
	}
	return com.Add(fee), nil
}

func parsePreMSTradeConfs(text, filename string) ([]brokertx.Tx, error) {
	accountNumber, err := searcher{re: accountNumberPat}.str1(text)
	if err != nil {
		return nil, err
	}

	var txs []brokertx.Tx
	for i, m := range preMSTradePat.FindAllStringSubmatch(text, -1) {
		c := capturedTrade{m: m, re: preMSTradePat}

		tradeDate, err := parseShortYearDate(c.group("txdate"))
		if err != nil {
			return nil, fmt.Errorf("date parse error in %s: %s", c.group("txdate"), err)
		}
		settleDate, err := parseShortYearDate(c.group("sdate"))
		if err != nil {
			return nil, fmt.Errorf("date parse error in %s: %s", c.group("sdate"), err)
		}
		action, err := brokertx.ParseAction(c.group("act"))
		if err != nil {
			return nil, err
		}
		price, err := c.decGroup("price")
		if err != nil {
			return nil, err
		}
		shares, err := c.decGroup("nshares")
		if err != nil {
			return nil, err
		}
		commission, err := c.commission()
		if err != nil {
			return nil, err
		}

		txs = append(txs, brokertx.Tx{
			Security:           c.group("sym"),
			TradeDate:          tradeDate,
			SettlementDate:     settleDate,
			TradeDateTime:      c.group("txdate"),
			SettlementDateTime: c.group("sdate"),
			Action:             action,
			AmountPerShare:     price,
			Shares:             shares,
			Commission:         commission,
			Currency:           brokertx.USD,
			Row:                i + 1,
			Account:            newAccount(accountNumber),
			Filename:           filename,
		})
	}
	return txs, nil
}

func parsePostMSTradeConf(text, filename string) (brokertx.Tx, error) {
	accountNumber, err := searcher{re: accountNumberPat}.str1(text)
	if err != nil {
		return brokertx.Tx{}, err
	}

	m := postMSTradePat.FindStringSubmatch(text)
	if m == nil {
		return brokertx.Tx{}, errors.New(
			"No transaction found in Morgan Stanley/Etrade trade confirmation slip")
	}
	c := capturedTrade{m: m, re: postMSTradePat}

	tradeDate, err := parseSlashDate(c.group("txdate"))
	if err != nil {
		return brokertx.Tx{}, fmt.Errorf("date parse error in %s: %s", c.group("txdate"), err)
	}
	settleDate, err := parseSlashDate(c.group("sdate"))
	if err != nil {
		return brokertx.Tx{}, fmt.Errorf("date parse error in %s: %s", c.group("sdate"), err)
	}
	action, err := brokertx.ParseAction(c.group("act"))
	if err != nil {
		return brokertx.Tx{}, err
	}
	price, err := c.decGroup("price")
	if err != nil {
		return brokertx.Tx{}, err
	}
	shares, err := c.decGroup("nshares")
	if err != nil {
		return brokertx.Tx{}, err
	}
	commission, err := c.commission()
	if err != nil {
		return brokertx.Tx{}, err
	}

	return brokertx.Tx{
		Security:           c.group("sym"),
		TradeDate:          tradeDate,
		SettlementDate:     settleDate,
		TradeDateTime:      c.group("txdate"),
		SettlementDateTime: c.group("sdate"),
		Action:             action,
		AmountPerShare:     price,
		Shares:             shares,
		Commission:         commission,
		Currency:           brokertx.USD,
		Row:                1,
		Account:            newAccount(accountNumber),
		Filename:           filename,
	}, nil
}
