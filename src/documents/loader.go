// Package documents turns a folder of PDFs into a persisted similarity index.
package documents

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the plain text of one page of a source document
type Page struct {
	Source string
	Number int
	Text   string
}

// Extractor reads the pages of the document at path
type Extractor func(path string) ([]Page, error)

// ExtractPDF reads the text layer of every page of a PDF
func ExtractPDF(path string) ([]Page, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer file.Close()

	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d of %s: %w", i, path, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, Page{Source: path, Number: i, Text: text})
	}

	return pages, nil
}
