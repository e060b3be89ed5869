package extraction

import (
	"strings"

	"github.com/zombor/invoice-tracker/internal/document"
)

// Vendor tags the issuer of an invoice
type Vendor string

const (
	VendorUnknown Vendor = ""
	VendorCogent  Vendor = "cogent"
	VendorOpenAI  Vendor = "openai"
)

// Strategy turns a block stream from a known vendor into an Invoice
type Strategy interface {
	Extract(blocks document.Stream) Invoice
}

// StrategyFunc adapts a plain function to Strategy
type StrategyFunc func(blocks document.Stream) Invoice

// Extract calls f(blocks)
func (f StrategyFunc) Extract(blocks document.Stream) Invoice {
	return f(blocks)
}

type registration struct {
	vendor       Vendor
	fingerprints []string
	strategy     Strategy
}

// Registry maps vendors to their fingerprints and extraction strategy.
// Registration order is the detection priority.
type Registry struct {
	entries []registration
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns a Registry with every supported vendor
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(VendorCogent, StrategyFunc(extractCogent), "cogent communications", "cogentco.com")
	r.Register(VendorOpenAI, StrategyFunc(extractOpenAI), "openai")
	return r
}

// Register adds a vendor, or replaces the strategy and fingerprints of one
// already registered while keeping its priority
func (r *Registry) Register(vendor Vendor, strategy Strategy, fingerprints ...string) {
	fps := make([]string, 0, len(fingerprints))
	for _, fp := range fingerprints {
		if fp = strings.ToLower(strings.TrimSpace(fp)); fp != "" {
			fps = append(fps, fp)
		}
	}
	entry := registration{vendor: vendor, fingerprints: fps, strategy: strategy}
	for i := range r.entries {
		if r.entries[i].vendor == vendor {
			r.entries[i] = entry
			return
		}
	}
	r.entries = append(r.entries, entry)
}

// Vendors returns the registered vendors in priority order
func (r *Registry) Vendors() []Vendor {
	vendors := make([]Vendor, len(r.entries))
	for i, e := range r.entries {
		vendors[i] = e.vendor
	}
	return vendors
}

// Strategy returns the strategy registered for vendor
func (r *Registry) Strategy(vendor Vendor) (Strategy, bool) {
	for _, e := range r.entries {
		if e.vendor == vendor {
			return e.strategy, true
		}
	}
	return nil, false
}

// Detect scans LINE blocks in stream order and returns the first vendor whose
// fingerprint appears in a line's own text. Ties on one line go to the vendor
// registered first.
func (r *Registry) Detect(blocks document.Stream) Vendor {
	for _, b := range blocks {
		if b.Type != document.TypeLine {
			continue
		}
		text := strings.ToLower(b.Text)
		for _, e := range r.entries {
			for _, fp := range e.fingerprints {
				if strings.Contains(text, fp) {
					return e.vendor
				}
			}
		}
	}
	return VendorUnknown
}
