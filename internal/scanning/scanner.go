package scanning

import "github.com/zombor/invoice-tracker/internal/document"

// Scanner defines the interface for OCR passes over an uploaded document
type Scanner interface {
	// ScanDocument runs OCR over an image/PDF and returns its block stream
	ScanDocument(data []byte, contentType string) (document.Stream, error)
	// Close closes the scanner and releases resources
	Close() error
}
