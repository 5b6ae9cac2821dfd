// Package sheet reads spreadsheet exports into string rows and gives
// column-name access to the cells of each data row.
package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook loads the named sheet of an .xlsx workbook as rows of
// string cells. When sheetName is empty the workbook must contain exactly
// one sheet.
func ReadWorkbook(path, sheetName string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %q: %w", path, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		switch {
		case len(sheets) == 0:
			return nil, fmt.Errorf("workbook %q has no sheets", path)
		case len(sheets) > 1:
			return nil, fmt.Errorf("workbook has more than one sheet %v, sheet name must be specified", sheets)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}
	return rows, nil
}
