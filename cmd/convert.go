package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/google/subcommands"
	"github.com/kgrenier/brokertx"
	"github.com/kgrenier/brokertx/config"
	"github.com/kgrenier/brokertx/questrade"
	"github.com/kgrenier/brokertx/render"
	"github.com/kgrenier/brokertx/sheet"
	"github.com/shopspring/decimal"
)

type convertCmd struct {
	noSort          bool
	broker          string
	usdExchangeRate string
	account         string
	security        string
	noFX            bool
	pretty          bool
	sheetName       string
	configPath      string
}

func (*convertCmd) Name() string { return "convert" }
func (*convertCmd) Synopsis() string {
	return "convert a brokerage activity export spreadsheet to ACB CSV"
}
func (*convertCmd) Usage() string {
	return `acbconv convert [flags] <export.xlsx>

  Converts the transactions of a brokerage activity export into the ACB
  CSV format on stdout. Rows that fail to convert are reported on stderr
  and do not prevent the valid rows from being emitted.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.noSort, "no-sort", false, "Keep transactions in spreadsheet row order.")
	f.StringVar(&c.broker, "b", "questrade", "Broker of the export file.")
	f.StringVar(&c.broker, "broker", "questrade", "Broker of the export file.")
	f.StringVar(&c.usdExchangeRate, "usd-exchange-rate", "", "Stamp this CAD/USD rate on every USD transaction.")
	f.StringVar(&c.account, "a", "", "Only include accounts matching this regexp. '.' includes all.")
	f.StringVar(&c.account, "account", "", "Only include accounts matching this regexp. '.' includes all.")
	f.StringVar(&c.security, "security", "", "Only include securities matching this regexp.")
	f.BoolVar(&c.noFX, "no-fx", false, "Drop the generated foreign exchange transactions.")
	f.BoolVar(&c.pretty, "pretty", false, "Print an aligned text table instead of CSV.")
	f.StringVar(&c.sheetName, "sheet", "", "Sheet name to read. Required when the workbook has several.")
	f.StringVar(&c.configPath, "config", "", "YAML conversion profile overriding the built-in defaults.")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one export file")
		return subcommands.ExitUsageError
	}
	if c.broker != "questrade" {
		fmt.Fprintf(os.Stderr, "Error: unsupported broker %q\n", c.broker)
		return subcommands.ExitUsageError
	}

	prof := config.Default()
	if c.configPath != "" {
		var err error
		prof, err = config.Load(c.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	path := f.Arg(0)
	rows, err := sheet.ReadWorkbook(path, c.sheetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	txs, rowErrs, err := questrade.ParseExport(rows, prof, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	txs, err = c.filterAccounts(txs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	if c.security != "" {
		pat, err := regexp.Compile(c.security)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -security pattern: %v\n", err)
			return subcommands.ExitUsageError
		}
		txs = filterTxs(txs, func(t *brokertx.Tx) bool { return pat.MatchString(t.Security) })
	}
	if c.noFX {
		txs = filterTxs(txs, func(t *brokertx.Tx) bool { return !strings.HasSuffix(t.Security, ".FX") })
	}
	if c.usdExchangeRate != "" {
		rate, err := decimal.NewFromString(c.usdExchangeRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -usd-exchange-rate: %v\n", err)
			return subcommands.ExitUsageError
		}
		for i := range txs {
			if txs[i].Currency == brokertx.USD {
				txs[i].ExchangeRate = decimal.NullDecimal{Decimal: rate, Valid: true}
			}
		}
	}
	if !c.noSort {
		brokertx.Sort(txs)
	}

	if c.pretty {
		render.TxTable(os.Stdout, txs)
	} else if err := render.CSV(os.Stdout, txs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	// Row errors are advisory. The valid rows were converted, so the run
	// still succeeds.
	render.Errors(os.Stderr, rowErrs)
	return subcommands.ExitSuccess
}

// filterAccounts applies the -account regexp, or, when none was given,
// refuses an export spanning several accounts.
func (c *convertCmd) filterAccounts(txs []brokertx.Tx) ([]brokertx.Tx, error) {
	if c.account != "" {
		pat, err := regexp.Compile(c.account)
		if err != nil {
			return nil, fmt.Errorf("Error: invalid -account pattern: %v", err)
		}
		return filterTxs(txs, func(t *brokertx.Tx) bool {
			return pat.MatchString(t.Account.String())
		}), nil
	}

	seen := map[brokertx.Account]bool{}
	for i := range txs {
		seen[txs[i].Account] = true
	}
	if len(seen) > 1 {
		var accounts []string
		for a := range seen {
			accounts = append(accounts, a.String())
		}
		sort.Strings(accounts)
		return nil, fmt.Errorf(
			"No account was specified, and found transactions for multiple accounts (%s). "+
				"If you wish to include all accounts, provide --account=.",
			strings.Join(accounts, ", "))
	}
	return txs, nil
}

func filterTxs(txs []brokertx.Tx, keep func(*brokertx.Tx) bool) []brokertx.Tx {
	out := txs[:0]
	for i := range txs {
		if keep(&txs[i]) {
			out = append(out, txs[i])
		}
	}
	return out
}
