package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/zombor/invoice-tracker/internal/document"
)

// minRowCells is the number of populated cells a table row needs to become an item
const minRowCells = 4

var reNumericDate = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)

// extractTableItems walks every TABLE block and maps each data row's first four
// cells, by position, to description, fromDate, toDate and amount. A row needs
// at least four populated cells. The first row of each table is its header.
func extractTableItems(blocks document.Stream) []LineItem {
	items := []LineItem{}
	for _, table := range blocks.OfType(document.TypeTable) {
		rows := tableRows(table, blocks)
		if len(rows) < 2 {
			continue
		}
		for _, row := range rows[1:] {
			cells := make([]string, len(row))
			populated := 0
			for i, cell := range row {
				cells[i] = strings.TrimSpace(blocks.Text(cell))
				if cells[i] != "" {
					populated++
				}
			}
			if populated < minRowCells {
				continue
			}
			items = append(items, LineItem{
				Description: cells[0],
				FromDate:    cells[1],
				ToDate:      cells[2],
				Amount:      cells[3],
			})
		}
	}
	return items
}

// tableRows groups a table's CELL children into rows. Cells carrying a row
// index are grouped by it and ordered by column. Without row indexes each CELL
// child is one row whose children are the row's cells.
func tableRows(table document.Block, blocks document.Stream) [][]document.Block {
	var cells []document.Block
	indexed := false
	for _, id := range table.Children {
		b, ok := blocks.Find(id)
		if !ok || b.Type != document.TypeCell {
			continue
		}
		cells = append(cells, b)
		if b.Row > 0 {
			indexed = true
		}
	}

	if !indexed {
		rows := make([][]document.Block, 0, len(cells))
		for _, cell := range cells {
			var row []document.Block
			for _, id := range cell.Children {
				if b, ok := blocks.Find(id); ok {
					row = append(row, b)
				}
			}
			rows = append(rows, row)
		}
		return rows
	}

	byRow := map[int][]document.Block{}
	var order []int
	for _, cell := range cells {
		if _, seen := byRow[cell.Row]; !seen {
			order = append(order, cell.Row)
		}
		byRow[cell.Row] = append(byRow[cell.Row], cell)
	}
	sort.Ints(order)

	rows := make([][]document.Block, 0, len(order))
	for _, r := range order {
		row := byRow[r]
		sort.SliceStable(row, func(i, j int) bool { return row[i].Column < row[j].Column })
		rows = append(rows, row)
	}
	return rows
}

// scanLabels recovers the header fields of a table-bearing document from its
// LINE and WORD blocks, independently of the table walk
func scanLabels(vendorName, fingerprint string, blocks document.Stream) Invoice {
	inv := newInvoice("")

	units := blocks.OfType(document.TypeLine, document.TypeWord)
	texts := make([]string, len(units))
	for i, b := range units {
		texts[i] = strings.ToLower(blocks.Text(b))
	}

	inv.AmountDue = embeddedAmountDue(texts)

	invoiceDateFound := false
	for _, text := range texts {
		if strings.Contains(text, fingerprint) {
			inv.VendorName = vendorName
		}

		if !invoiceDateFound && strings.Contains(text, "invoice date") {
			if d := reNumericDate.FindString(text); d != "" {
				inv.InvoiceDate = d
				invoiceDateFound = true
			}
		}
		// any dated line stands in for a missing invoice date label
		if !invoiceDateFound {
			if d := reNumericDate.FindString(text); d != "" {
				inv.InvoiceDate = d
				invoiceDateFound = true
			}
		}

		if IsDueUponReceipt(text) {
			inv.DueDate = DueUponReceipt
		} else if strings.Contains(text, "due date") {
			if d := reNumericDate.FindString(text); d != "" {
				inv.DueDate = d
			}
		}
	}
	return inv
}

// embeddedAmountDue returns the first amount found within lookaheadWindow
// units after an "amount due" label, trying each label in turn
func embeddedAmountDue(texts []string) string {
	for i, text := range texts {
		if !strings.Contains(text, "amount due") {
			continue
		}
		for j := i + 1; j < len(texts) && j <= i+lookaheadWindow; j++ {
			if amount, ok := FindAmount(texts[j]); ok {
				return amount
			}
		}
	}
	return ""
}

// extractTables is the strategy for documents whose OCR output includes tables
func extractTables(vendorName, fingerprint string, blocks document.Stream) Invoice {
	inv := scanLabels(vendorName, fingerprint, blocks)
	inv.Items = extractTableItems(blocks)
	return inv
}
