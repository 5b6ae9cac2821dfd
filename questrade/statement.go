package questrade

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kgrenier/brokertx"
	"github.com/shopspring/decimal"
)

// FMV is one row of the statement's securities-owned table: the ticker,
// its percentage allocation, and its fair market value in CAD.
type FMV struct {
	Security   string
	Allocation decimal.Decimal
	Value      decimal.Decimal
}

// Statement is the parsed result of one monthly statement.
type Statement struct {
	Month string // as printed, e.g. "March 31, 2023"
	FMVs  []FMV
}

// TotalFMV sums the fair market values of all securities.
func (s *Statement) TotalFMV() decimal.Decimal {
	total := decimal.Zero
	for _, f := range s.FMVs {
		total = total.Add(f.Value)
	}
	return total
}

// The securities-owned table is parsed by a line state machine. Each state
// tries its transitions in order against the current line; the first
// matcher that accepts wins. Lines matching no transition leave the state
// unchanged.
type fmvState int

const (
	fmvStart fmvState = iota
	fmvHdrAllocation
	fmvHdrMarketValue
	fmvDiv
	fmvSecurity
	fmvAllocation
	fmvMarketValue
	fmvDone
)

func (s fmvState) String() string {
	switch s {
	case fmvStart:
		return "start"
	case fmvHdrAllocation:
		return "hdrAllocation"
	case fmvHdrMarketValue:
		return "hdrMarketValue"
	case fmvDiv:
		return "div"
	case fmvSecurity:
		return "security"
	case fmvAllocation:
		return "allocation"
	case fmvMarketValue:
		return "marketValue"
	case fmvDone:
		return "done"
	}
	return "unknown"
}

// matchKind is the closed set of line matchers the transition table uses.
type matchKind int

const (
	matchEquals matchKind = iota
	matchPattern
	matchNotPattern
	matchNumeric
)

type lineMatcher struct {
	kind matchKind
	lit  string
	pat  *regexp.Regexp
}

func equalsLine(lit string) lineMatcher  { return lineMatcher{kind: matchEquals, lit: lit} }
func matchesPat(p *regexp.Regexp) lineMatcher {
	return lineMatcher{kind: matchPattern, pat: p}
}
func notMatchesPat(p *regexp.Regexp) lineMatcher {
	return lineMatcher{kind: matchNotPattern, pat: p}
}
func numericLine() lineMatcher {
	return lineMatcher{kind: matchNumeric, pat: numericPat}
}

func (m lineMatcher) match(line string) bool {
	switch m.kind {
	case matchEquals:
		return line == m.lit
	case matchPattern, matchNumeric:
		return m.pat.MatchString(line)
	case matchNotPattern:
		return !m.pat.MatchString(line)
	}
	return false
}

// toDecimal normalizes a numeric line, stripping thousands separators and
// embedded spaces. Only meaningful for the numeric matcher.
func (m lineMatcher) toDecimal(line string) (decimal.Decimal, error) {
	if m.kind != matchNumeric {
		return decimal.Decimal{}, fmt.Errorf("line %q is not numeric", line)
	}
	return brokertx.ParseLargeDecimal(line)
}

var (
	securityPat = regexp.MustCompile(`^[A-Z].*`)
	// A numeric line may start with a minus and contains digits possibly
	// broken up by separators.
	numericPat = regexp.MustCompile(`^-?\s*[., \d]+$`)
	tickerPat  = regexp.MustCompile(`\(([^()]*?)\)\s*$`)
	monthPat   = regexp.MustCompile(`(?i)\bCurrent month:\s+(\S+ \d+, \d+)`)
)

type fmvTransition struct {
	m    lineMatcher
	next fmvState
}

var fmvTransitions = map[fmvState][]fmvTransition{
	fmvStart: {
		{equalsLine("ALLOCATION"), fmvHdrAllocation},
	},
	fmvHdrAllocation: {
		{equalsLine("MARKET VALUE"), fmvHdrMarketValue},
	},
	fmvHdrMarketValue: {
		{matchesPat(securityPat), fmvSecurity},
	},
	fmvDiv: {
		{matchesPat(securityPat), fmvSecurity},
	},
	fmvSecurity: {
		{numericLine(), fmvAllocation},
	},
	fmvAllocation: {
		{numericLine(), fmvMarketValue},
	},
	fmvMarketValue: {
		{equalsLine("100.0"), fmvDone},
		{notMatchesPat(securityPat), fmvDiv},
		{matchesPat(securityPat), fmvSecurity},
	},
}

// secOwnedMarker identifies the statement page holding the table.
const secOwnedMarker = "Securities Owned\nCombined in (CAD)"

// ParseStatement extracts the securities-owned table and the statement
// month from the pages of one statement. Any failure here means the
// document layout was not recognized and is fatal for the whole file.
func ParseStatement(pages []string) (*Statement, error) {
	st := &Statement{}
	for _, text := range pages {
		if m := monthPat.FindStringSubmatch(text); m != nil {
			st.Month = m[1]
		}
		if !strings.Contains(text, secOwnedMarker) {
			continue
		}
		fmvs, err := parseSecOwnedPage(text)
		if err != nil {
			return nil, err
		}
		st.FMVs = append(st.FMVs, fmvs...)
	}
	if st.Month == "" {
		return nil, fmt.Errorf("statement month not found (no %q line)", "Current month:")
	}
	return st, nil
}

func parseSecOwnedPage(text string) ([]FMV, error) {
	var fmvs []FMV
	state := fmvStart
	var conv lineMatcher
	var nameParts []string
	var allocation decimal.Decimal

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		moved := false
		for _, tr := range fmvTransitions[state] {
			if tr.m.match(line) {
				conv = tr.m
				state = tr.next
				moved = true
				break
			}
		}
		// Unmatched lines inside a security name keep accumulating; anywhere
		// else they are layout noise to skip.
		if !moved && state != fmvSecurity {
			continue
		}

		switch state {
		case fmvDone:
			return fmvs, nil
		case fmvSecurity:
			nameParts = append(nameParts, line)
		case fmvAllocation:
			v, err := conv.toDecimal(line)
			if err != nil {
				return nil, err
			}
			allocation = v
		case fmvMarketValue:
			v, err := conv.toDecimal(line)
			if err != nil {
				return nil, err
			}
			ticker, err := extractTicker(strings.Join(nameParts, " "))
			if err != nil {
				return nil, err
			}
			fmvs = append(fmvs, FMV{Security: ticker, Allocation: allocation, Value: v})
			nameParts = nil
		}
	}
	return nil, fmt.Errorf("expected to terminate in done state, but in %s", state)
}

// extractTicker pulls the trailing parenthesized ticker out of an
// accumulated security name like "FOO INDEX FUND (FOO.TO)".
func extractTicker(name string) (string, error) {
	m := tickerPat.FindStringSubmatch(name)
	if m == nil {
		return "", fmt.Errorf("no ticker found in security name %q", name)
	}
	return m[1], nil
}
