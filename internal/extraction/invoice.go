package extraction

// Invoice is the normalized record extracted from a block stream.
// Fields that could not be found hold the empty string.
type Invoice struct {
	VendorName  string     `json:"vendorName"`
	InvoiceDate string     `json:"invoiceDate"`
	DueDate     string     `json:"dueDate"`
	AmountDue   string     `json:"amountDue"`
	Items       []LineItem `json:"items"`
}

// LineItem is one purchased item and its billing period
type LineItem struct {
	Description string `json:"description"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
	Amount      string `json:"amount"`
}

func newInvoice(vendorName string) Invoice {
	return Invoice{
		VendorName: vendorName,
		Items:      []LineItem{},
	}
}
