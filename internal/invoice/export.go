package invoice

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	invoicesSheet = "Invoices"
	itemsSheet    = "Items"
)

var (
	invoiceHeaders = []string{"ID", "Vendor", "Invoice Date", "Due Date", "Amount Due", "Items", "Paid"}
	itemHeaders    = []string{"Invoice ID", "Description", "From", "To", "Amount"}
)

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeRow(f, sheet, 1, values...)
}

// ExportXLSX writes every invoice and its line items to an XLSX workbook
func (s *Service) ExportXLSX() ([]byte, error) {
	invoices, err := s.ListInvoices()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the invoices sheet
	if err := f.SetSheetName(f.GetSheetName(0), invoicesSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if err := writeHeader(f, invoicesSheet, invoiceHeaders); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	if err := writeHeader(f, itemsSheet, itemHeaders); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	itemRow := 2
	for i, inv := range invoices {
		err := writeRow(f, invoicesSheet, i+2,
			inv.ID, inv.VendorName, inv.InvoiceDate, inv.DueDate, inv.AmountDue, len(inv.Items), inv.Paid())
		if err != nil {
			return nil, fmt.Errorf("writing invoice %s: %w", inv.ID, err)
		}
		for _, item := range inv.Items {
			if err := writeRow(f, itemsSheet, itemRow, inv.ID, item.Description, item.FromDate, item.ToDate, item.Amount); err != nil {
				return nil, fmt.Errorf("writing items of %s: %w", inv.ID, err)
			}
			itemRow++
		}
	}

	_ = f.SetColWidth(invoicesSheet, "A", "A", 38)
	_ = f.SetColWidth(invoicesSheet, "B", "B", 28)
	_ = f.SetColWidth(itemsSheet, "B", "B", 48)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
