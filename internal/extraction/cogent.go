package extraction

import "github.com/zombor/invoice-tracker/internal/document"

const (
	cogentVendorName  = "Cogent Communications, LLC"
	cogentFingerprint = "cogent communications"
)

// extractCogent reads Cogent invoices. Table-aware OCR output goes through the
// table walk, plain line output through the line scanner.
func extractCogent(blocks document.Stream) Invoice {
	if blocks.Has(document.TypeTable) {
		return extractTables(cogentVendorName, cogentFingerprint, blocks)
	}
	return scanLines(cogentVendorName, blocks.Lines())
}
