package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/kgrenier/brokertx/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion handles the request and exits when invoked by the
	// shell, before any flag parsing.
	completion().Complete("acbconv")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	pdfs := predict.Files("*.pdf")
	csvs := predict.Files("*.csv")
	noPred := predict.Nothing

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"convert": {
				Args: predict.Files("*.xlsx"),
				Flags: map[string]complete.Predictor{
					"no-sort":           noPred,
					"b":                 predict.Set{"questrade"},
					"broker":            predict.Set{"questrade"},
					"usd-exchange-rate": noPred,
					"a":                 noPred,
					"account":           noPred,
					"security":          noPred,
					"no-fx":             noPred,
					"pretty":            noPred,
					"sheet":             noPred,
					"config":            predict.Files("*.yaml"),
				},
			},
			"extract": {
				Args: pdfs,
				Flags: map[string]complete.Predictor{
					"p":            noPred,
					"pretty":       noPred,
					"extract-only": noPred,
					"debug":        noPred,
				},
			},
			"fmv": {
				Args: pdfs,
				Flags: map[string]complete.Predictor{
					"pretty": noPred,
				},
			},
			"csv2xlsx": {
				Args: csvs,
				Flags: map[string]complete.Predictor{
					"o": predict.Files("*.xlsx"),
				},
			},
			"normalize": {Args: csvs},
			"pdftext":   {Args: pdfs},
			"topic":     {},
		},
	}
}
