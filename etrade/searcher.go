package etrade

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kgrenier/brokertx"
	"github.com/shopspring/decimal"
)

// searcher wraps a compiled pattern with single-capture extraction helpers.
type searcher struct {
	re *regexp.Regexp
}

func srch(pattern string) searcher {
	return searcher{re: regexp.MustCompile(pattern)}
}

// srchDotAll compiles the pattern with . also matching newlines.
func srchDotAll(pattern string) searcher {
	return searcher{re: regexp.MustCompile("(?s)" + pattern)}
}

func (s searcher) str1(text string) (string, error) {
	m := s.re.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("Could not find %v", s.re)
	}
	return m[1], nil
}

func (s searcher) dec1(text string) (decimal.Decimal, error) {
	v, err := s.str1(text)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return brokertx.ParseLargeDecimal(v)
}

// optDec1 returns an invalid NullDecimal when the pattern is absent, but
// still fails on an unparseable capture.
func (s searcher) optDec1(text string) (decimal.NullDecimal, error) {
	m := s.re.FindStringSubmatch(text)
	if m == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := brokertx.ParseLargeDecimal(m[1])
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// fieldErrs collects the first error from a run of field extractions, so a
// struct literal can stay readable.
type fieldErrs struct {
	err error
}

func (f *fieldErrs) str(v string, err error) string {
	if f.err == nil {
		f.err = err
	}
	return v
}

func (f *fieldErrs) dec(v decimal.Decimal, err error) decimal.Decimal {
	if f.err == nil {
		f.err = err
	}
	return v
}

func (f *fieldErrs) optDec(v decimal.NullDecimal, err error) decimal.NullDecimal {
	if f.err == nil {
		f.err = err
	}
	return v
}

// searchRows finds every row of the form "KEY VAL" or "KEY VAL VAL" and
// returns the values in encounter order. Exercise confirmations lay grants
// out in columns, so one key row carries one value per grant.
func searchRows(key, valPat, text string) ([]string, error) {
	re := regexp.MustCompile(
		key + `(?:\s+(?P<rowvalue1>` + valPat + `)(?:\s+(?P<rowvalue2>` + valPat + `))?)`)
	i1 := re.SubexpIndex("rowvalue1")
	i2 := re.SubexpIndex("rowvalue2")

	var vals []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		vals = append(vals, m[i1])
		if m[i2] != "" {
			vals = append(vals, m[i2])
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("Could not find %v", re)
	}
	return vals, nil
}

func valuePattern(dollarPrefix, parens bool) string {
	prefix := ""
	if dollarPrefix {
		prefix = `\$`
	}
	pat := prefix + `([\d,\.]+)`
	if parens {
		pat = `\(` + pat + `\)`
	}
	return pat
}

func stripSymbols(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '$' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, s)
}

func searchDecRows(key string, dollarPrefix, parens bool, text string) ([]decimal.Decimal, error) {
	vals, err := searchRows(key, valuePattern(dollarPrefix, parens), text)
	if err != nil {
		return nil, err
	}
	decs := make([]decimal.Decimal, 0, len(vals))
	for _, v := range vals {
		sanitized := stripSymbols(v)
		d, err := brokertx.ParseLargeDecimal(sanitized)
		if err != nil {
			return nil, fmt.Errorf("decimal error in %q on %q row: %s", sanitized, key, err)
		}
		decs = append(decs, d)
	}
	return decs, nil
}

func extractDec(key string, dollarPrefix, parens bool, text string) (decimal.Decimal, error) {
	rows, err := searchDecRows(key, dollarPrefix, parens, text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("Could not find %q decimal value: %s", key, err)
	}
	if len(rows) != 1 {
		return decimal.Decimal{}, fmt.Errorf(
			"Only expected a single %q value, but found: %v", key, rows)
	}
	return rows[0], nil
}

func extractNumeric(key string, parens bool, text string) (decimal.Decimal, error) {
	return extractDec(key, false, parens, text)
}

func extractCurrency(key string, parens bool, text string) (decimal.Decimal, error) {
	return extractDec(key, true, parens, text)
}
