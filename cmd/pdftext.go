package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/kgrenier/brokertx/pdftext"
)

type pdftextCmd struct{}

func (*pdftextCmd) Name() string { return "pdftext" }
func (*pdftextCmd) Synopsis() string {
	return "dump the extracted plain text of PDF files"
}
func (*pdftextCmd) Usage() string {
	return `acbconv pdftext <file.pdf>...

  Prints the extracted text of each page, pages separated by a form
  feed. Useful to debug unrecognized statement or confirmation layouts.
`
}

func (c *pdftextCmd) SetFlags(f *flag.FlagSet) {}

func (c *pdftextCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected at least one PDF file")
		return subcommands.ExitUsageError
	}
	for _, file := range f.Args() {
		pages, err := pdftext.Pages(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		for i, page := range pages {
			if i > 0 {
				fmt.Print("\f")
			}
			fmt.Println(page)
		}
	}
	return subcommands.ExitSuccess
}
