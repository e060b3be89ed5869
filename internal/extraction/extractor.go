package extraction

import (
	"errors"
	"fmt"

	"github.com/zombor/invoice-tracker/internal/document"
)

// ErrUnsupportedVendor matches every UnsupportedVendorError via errors.Is
var ErrUnsupportedVendor = errors.New("unsupported vendor")

// UnsupportedVendorError is returned when no vendor fingerprint matched.
// Blocks is the stream that was inspected.
type UnsupportedVendorError struct {
	Blocks document.Stream
}

func (e *UnsupportedVendorError) Error() string {
	return fmt.Sprintf("unsupported vendor: no fingerprint matched in %d blocks", len(e.Blocks))
}

func (e *UnsupportedVendorError) Unwrap() error {
	return ErrUnsupportedVendor
}

// Extractor detects the vendor of a block stream and runs its strategy
type Extractor struct {
	registry *Registry
}

var defaultExtractor = New()

// New creates an Extractor over DefaultRegistry
func New() *Extractor {
	return NewWithRegistry(DefaultRegistry())
}

// NewWithRegistry creates an Extractor over a custom registry
func NewWithRegistry(registry *Registry) *Extractor {
	return &Extractor{registry: registry}
}

// Detect returns the vendor of blocks, or VendorUnknown
func (e *Extractor) Detect(blocks document.Stream) Vendor {
	return e.registry.Detect(blocks)
}

// Run detects the vendor and returns it along with that vendor's extraction
func (e *Extractor) Run(blocks document.Stream) (Vendor, Invoice, error) {
	vendor := e.registry.Detect(blocks)
	strategy, ok := e.registry.Strategy(vendor)
	if vendor == VendorUnknown || !ok {
		return VendorUnknown, Invoice{}, &UnsupportedVendorError{Blocks: blocks}
	}
	return vendor, strategy.Extract(blocks), nil
}

// Extract returns the normalized invoice for blocks
func (e *Extractor) Extract(blocks document.Stream) (Invoice, error) {
	_, inv, err := e.Run(blocks)
	return inv, err
}

// Extract runs the default extractor
func Extract(blocks document.Stream) (Invoice, error) {
	return defaultExtractor.Extract(blocks)
}
