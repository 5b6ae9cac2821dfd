package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"
	"github.com/kgrenier/brokertx/etrade"
	"github.com/kgrenier/brokertx/pdftext"
	"github.com/kgrenier/brokertx/render"
)

type extractCmd struct {
	pretty      bool
	extractOnly bool
	debug       bool
}

func (*extractCmd) Name() string { return "extract" }
func (*extractCmd) Synopsis() string {
	return "extract ACB transactions from benefit plan and trade confirmation PDFs"
}
func (*extractCmd) Usage() string {
	return `acbconv extract [flags] <confirmation.pdf>...

  Reads E*TRADE benefit plan confirmations (release, purchase, exercise)
  and trade confirmation slips, matches the sell-to-cover sales against
  the trades, and emits the resulting transactions as ACB CSV on stdout.
  Files ending in .txt are treated as pre-extracted PDF text.

  See 'acbconv topic etrade' for where to download the PDFs.
`
}

func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.pretty, "p", false, "Print aligned text tables instead of CSV.")
	f.BoolVar(&c.pretty, "pretty", false, "Print aligned text tables instead of CSV.")
	f.BoolVar(&c.extractOnly, "extract-only", false,
		"Dump parsed benefits and trades separately, without matching them up.")
	f.BoolVar(&c.debug, "debug", false, "Verbose dump of parsed intermediates on stderr.")
}

func (c *extractCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected at least one PDF file")
		return subcommands.ExitUsageError
	}
	files := append([]string(nil), f.Args()...)
	sort.Strings(files)

	data := &etrade.PDFData{}
	for _, file := range files {
		text, err := pdftext.Text(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		content, err := etrade.ParseText(text, file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", file, err)
			return subcommands.ExitFailure
		}
		if c.debug {
			fmt.Fprintf(os.Stderr, "%s: %d benefits, %d trades\n",
				file, len(content.Benefits), len(content.Trades))
			for _, b := range content.Benefits {
				fmt.Fprintf(os.Stderr, "  benefit: %+v\n", b)
			}
			for _, t := range content.Trades {
				fmt.Fprintf(os.Stderr, "  trade: %+v\n", t)
			}
		}
		data.Merge(content)
	}

	if c.extractOnly {
		return c.dump(data)
	}

	res, warnings, errs := etrade.AmendBenefitSales(data)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	if len(errs) > 0 {
		render.Errors(os.Stderr, errs)
		return subcommands.ExitFailure
	}

	txs, err := etrade.TxsFromData(res)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.pretty {
		render.TxTable(os.Stdout, txs)
	} else if err := render.CSV(os.Stdout, txs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// dump prints the parsed benefits and trades as two separate tables.
func (c *extractCmd) dump(data *etrade.PDFData) subcommands.ExitStatus {
	header := []string{
		"File", "Security", "Acquire Date", "Settle Date", "Price", "Shares",
		"StC Price", "StC Shares", "StC Fee", "Note",
	}
	rows := make([][]string, 0, len(data.Benefits))
	for i := range data.Benefits {
		b := &data.Benefits[i]
		note := b.PlanNote
		if b.SellNote != "" {
			note += " " + b.SellNote
		}
		rows = append(rows, []string{
			b.Filename, b.Security,
			b.AcquireTradeDate.String(), b.AcquireSettleDate.String(),
			b.AcquireSharePrice.String(), b.AcquireShares.String(),
			nullDecStr(b.StCPrice.Valid, b.StCPrice.Decimal.String()),
			nullDecStr(b.StCShares.Valid, b.StCShares.Decimal.String()),
			nullDecStr(b.StCFee.Valid, b.StCFee.Decimal.String()),
			note,
		})
	}

	if c.pretty {
		render.Table(os.Stdout, header, rows)
		fmt.Println()
		render.TxTable(os.Stdout, data.Trades)
		return subcommands.ExitSuccess
	}

	cw := csv.NewWriter(os.Stdout)
	if err := cw.Write(header); err == nil {
		cw.WriteAll(rows)
	}
	cw.Flush()
	fmt.Println()
	if err := render.CSV(os.Stdout, data.Trades); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func nullDecStr(valid bool, s string) string {
	if !valid {
		return "-"
	}
	return s
}
