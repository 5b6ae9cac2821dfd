// Package pdftext extracts the plain text of PDF pages. Files with a .txt
// extension are passed through unparsed, which lets pre-extracted text
// stand in for a PDF.
package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Pages returns the extracted text of each page of the file. A .txt file
// yields its pages split on form feeds, or a single page without them.
func Pages(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading text file %q: %w", path, err)
		}
		return strings.Split(string(b), "\f"), nil
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %q: %w", path, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d of %q: %w", i, path, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// Text returns the whole document's extracted text, pages joined with a
// newline.
func Text(path string) (string, error) {
	pages, err := Pages(path)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}
