package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/kgrenier/brokertx/date"
	"github.com/xuri/excelize/v2"
)

type csv2xlsxCmd struct {
	output string
}

func (*csv2xlsxCmd) Name() string { return "csv2xlsx" }
func (*csv2xlsxCmd) Synopsis() string {
	return "combine CSV files into a single xlsx workbook"
}
func (*csv2xlsxCmd) Usage() string {
	return `acbconv csv2xlsx [-o <out.xlsx>] <file.csv>...

  Each CSV file becomes one sheet, named after the file. Cells holding
  numbers or yyyy-mm-dd dates are written typed, not as text.
`
}

func (c *csv2xlsxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "out.xlsx", "Output workbook filename.")
}

func (c *csv2xlsxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: expected at least one CSV file")
		return subcommands.ExitUsageError
	}
	files := append([]string(nil), f.Args()...)
	sort.Strings(files)

	wb := excelize.NewFile()
	defer wb.Close()

	for i, file := range files {
		if err := addCSVSheet(wb, i, file); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	if err := wb.SaveAs(c.output); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// addCSVSheet writes one CSV file into sheet index i of the workbook. The
// first sheet replaces the workbook's default sheet.
func addCSVSheet(wb *excelize.File, i int, file string) error {
	base := filepath.Base(file)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if i == 0 {
		if err := wb.SetSheetName(wb.GetSheetName(0), name); err != nil {
			return fmt.Errorf("naming sheet for %q: %w", file, err)
		}
	} else if _, err := wb.NewSheet(name); err != nil {
		return fmt.Errorf("adding sheet for %q: %w", file, err)
	}

	fh, err := os.Open(file)
	if err != nil {
		return err
	}
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		return fmt.Errorf("reading %q: %w", file, err)
	}

	widths := map[int]float64{}
	for r, row := range records {
		for col, cell := range row {
			if w := float64(len(cell)); w > widths[col] {
				widths[col] = w
			}
			axis, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				return err
			}
			if err := writeCell(wb, name, axis, cell); err != nil {
				return err
			}
		}
	}

	for col, width := range widths {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := wb.SetColWidth(name, colName, colName, width+1); err != nil {
			return err
		}
	}
	return nil
}

func writeCell(wb *excelize.File, sheet, axis, cell string) error {
	if d, err := date.Parse(cell); err == nil {
		style, err := wb.NewStyle(&excelize.Style{CustomNumFmt: strPtr("yyyy-mm-dd")})
		if err != nil {
			return err
		}
		if err := wb.SetCellStyle(sheet, axis, axis, style); err != nil {
			return err
		}
		return wb.SetCellValue(sheet, axis,
			time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	}
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return wb.SetCellValue(sheet, axis, n)
	}
	return wb.SetCellValue(sheet, axis, cell)
}

func strPtr(s string) *string { return &s }
