package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type normalizeCmd struct{}

func (*normalizeCmd) Name() string { return "normalize" }
func (*normalizeCmd) Synopsis() string {
	return "strip currency symbols from CSV cells and round to cents"
}
func (*normalizeCmd) Usage() string {
	return `acbconv normalize <file.csv>

  Cells starting with "$" have the currency symbol, commas and spaces
  stripped and are rounded half-even to two decimal places. Every other
  cell passes through unchanged. The result is printed to stdout.
`
}

func (c *normalizeCmd) SetFlags(f *flag.FlagSet) {}

func (c *normalizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one CSV file")
		return subcommands.ExitUsageError
	}

	fh, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	for _, row := range records {
		for i, cell := range row {
			row[i] = normalizeCell(cell)
		}
	}

	cw := csv.NewWriter(os.Stdout)
	if err := cw.WriteAll(records); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// normalizeCell converts "$1,234.565" into "1234.56". Cells without a
// leading "$", including yyyy-mm-dd dates, pass through unchanged.
func normalizeCell(v string) string {
	if !strings.HasPrefix(strings.TrimSpace(v), "$") {
		return v
	}
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ':
			return -1
		}
		return r
	}, v)
	d, err := decimal.NewFromString(stripped)
	if err != nil {
		return v
	}
	return d.RoundBank(2).StringFixed(2)
}
