package pdfmeta

import (
	"bytes"
	"errors"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when the payload cannot be parsed as a PDF.
var ErrNotPDF = errors.New("not a parseable pdf")

// PageCount parses an in-memory PDF and returns its number of pages.
// Library used: github.com/ledongthuc/pdf.
func PageCount(data []byte) (pages int, err error) {
	if len(data) == 0 {
		return 0, ErrNotPDF
	}

	// The parser panics on some malformed xref tables.
	defer func() {
		if rec := recover(); rec != nil {
			pages = 0
			err = ErrNotPDF
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return 0, ErrNotPDF
	}

	pages = pdfReader.NumPage()
	if pages < 0 {
		pages = 0
	}
	return pages, nil
}
