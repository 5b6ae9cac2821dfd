package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"
	"github.com/kgrenier/brokertx/date"
	"github.com/kgrenier/brokertx/pdftext"
	"github.com/kgrenier/brokertx/questrade"
	"github.com/kgrenier/brokertx/render"
)

type fmvCmd struct {
	pretty bool
}

func (*fmvCmd) Name() string { return "fmv" }
func (*fmvCmd) Synopsis() string {
	return "extract monthly fair market values from account statement PDFs"
}
func (*fmvCmd) Usage() string {
	return `acbconv fmv [flags] <statement.pdf>...

  Reads the securities-owned table of each monthly statement and prints
  one CSV row per month: the month, the total fair market value in CAD,
  then one column per security held in any of the statements.
`
}

func (c *fmvCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.pretty, "pretty", false, "Print an aligned text table instead of CSV.")
}

func (c *fmvCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected at least one statement file")
		return subcommands.ExitUsageError
	}

	type monthly struct {
		day  date.Date
		stmt *questrade.Statement
	}
	var statements []monthly
	for _, file := range f.Args() {
		pages, err := pdftext.Pages(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		stmt, err := questrade.ParseStatement(pages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", file, err)
			return subcommands.ExitFailure
		}
		day, err := date.ParseLong(stmt.Month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", file, err)
			return subcommands.ExitFailure
		}
		statements = append(statements, monthly{day: day, stmt: stmt})
	}

	sort.SliceStable(statements, func(i, j int) bool {
		return statements[i].day.Before(statements[j].day)
	})

	// Columns are the union of securities across all statements.
	tickerSet := map[string]bool{}
	for _, m := range statements {
		for _, fmv := range m.stmt.FMVs {
			tickerSet[fmv.Security] = true
		}
	}
	tickers := make([]string, 0, len(tickerSet))
	for t := range tickerSet {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	header := append([]string{"Month", "Total FMV (CAD)"}, tickers...)
	rows := make([][]string, 0, len(statements))
	for _, m := range statements {
		row := []string{m.stmt.Month, m.stmt.TotalFMV().String()}
		for _, t := range tickers {
			cell := "-"
			for _, fmv := range m.stmt.FMVs {
				if fmv.Security == t {
					cell = fmv.Value.String()
					break
				}
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	if c.pretty {
		render.Table(os.Stdout, header, rows)
		return subcommands.ExitSuccess
	}
	cw := csv.NewWriter(os.Stdout)
	if err := cw.Write(header); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := cw.WriteAll(rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
