package pdfmeta

import (
	"errors"
	"testing"
)

func TestPageCountRejectsEmptyPayload(t *testing.T) {
	if _, err := PageCount(nil); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestPageCountRejectsGarbage(t *testing.T) {
	if _, err := PageCount([]byte("this is not a pdf")); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestPageCountRejectsTruncatedHeader(t *testing.T) {
	if _, err := PageCount([]byte("%PDF-1.4\nbroken body with no xref")); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}
