package invoice

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/zombor/invoice-tracker/internal/extraction"
)

var _ = Describe("ExportXLSX", func() {
	var (
		db       *mockDB
		service  *Service
		workbook *excelize.File
	)

	BeforeEach(func() {
		db = newMockDB()
		db.invoices["a"] = &Invoice{
			ID:        "a",
			PaymentID: "pay-1",
			Invoice: extraction.Invoice{
				VendorName:  "Cogent Communications, LLC",
				InvoiceDate: "09/17/2024",
				DueDate:     extraction.DueUponReceipt,
				AmountDue:   "$100.00",
				Items: []extraction.LineItem{
					{Description: "Internet Service", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$60.00"},
					{Description: "IP Block", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$40.00"},
				},
			},
			CreatedAt: time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC),
		}
		service = NewServiceWithDeps(db, nil, newMockStorage(), extraction.New(), &mockIDGenerator{}, &mockTimeSource{})
	})

	JustBeforeEach(func() {
		data, err := service.ExportXLSX()
		Expect(err).NotTo(HaveOccurred())
		workbook, err = excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		workbook.Close()
	})

	It("writes both sheets", func() {
		Expect(workbook.GetSheetList()).To(Equal([]string{"Invoices", "Items"}))
	})

	It("writes one invoice row", func() {
		rows, err := workbook.GetRows("Invoices")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0]).To(Equal([]string{"ID", "Vendor", "Invoice Date", "Due Date", "Amount Due", "Items", "Paid"}))
		Expect(rows[1]).To(Equal([]string{"a", "Cogent Communications, LLC", "09/17/2024", "Due Upon Receipt", "$100.00", "2", "TRUE"}))
	})

	It("writes one row per line item", func() {
		rows, err := workbook.GetRows("Items")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[2]).To(Equal([]string{"a", "IP Block", "09/01/2024", "09/30/2024", "$40.00"}))
	})
})
