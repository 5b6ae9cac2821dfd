package sheet

import (
	"errors"
	"fmt"

	"github.com/kgrenier/brokertx"
	"github.com/shopspring/decimal"
)

// Reader gives column-name access to the data rows of a sheet. The first
// row is the header and defines the column positions.
type Reader struct {
	cols map[string]int
	rows [][]string
}

// NewReader indexes the header row. The remaining rows become data rows.
func NewReader(rows [][]string) (*Reader, error) {
	if len(rows) == 0 {
		return nil, errors.New("sheet was empty")
	}
	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[name] = i
	}
	return &Reader{cols: cols, rows: rows[1:]}, nil
}

// Len returns the number of data rows.
func (r *Reader) Len() int { return len(r.rows) }

// RowNum converts a data row index to the 1-based sheet row number.
// The header counts as row 1.
func (r *Reader) RowNum(i int) int { return i + 2 }

// Str returns the raw cell of data row i in the named column. Cells past
// the end of a short row read as empty.
func (r *Reader) Str(i int, name string) (string, error) {
	col, ok := r.cols[name]
	if !ok {
		return "", fmt.Errorf("sheet contained no column %q", name)
	}
	row := r.rows[i]
	if col >= len(row) {
		return "", nil
	}
	return row[col], nil
}

// Dec parses the cell as a decimal, tolerating thousands separators.
func (r *Reader) Dec(i int, name string) (decimal.Decimal, error) {
	v, err := r.Str(i, name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := brokertx.ParseLargeDecimal(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("Unable to parse number from '%s' in %s column", v, name)
	}
	return d, nil
}

// Int parses the cell as an integer quantity. Fractional cells like "8.0"
// are accepted; a true fraction is an error.
func (r *Reader) Int(i int, name string) (int, error) {
	d, err := r.Dec(i, name)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("Unable to parse integer from '%s' in %s column", d, name)
	}
	return int(d.IntPart()), nil
}
