package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-tracker/internal/document"
)

// cell builds a CELL block at row/column whose text comes from one WORD child
func cell(id string, row, column int, text string) []document.Block {
	c := document.Block{ID: id, Type: document.TypeCell, Row: row, Column: column}
	if text == "" {
		return []document.Block{c}
	}
	c.Children = []string{id + "-w"}
	return []document.Block{c, {ID: id + "-w", Type: document.TypeWord, Text: text}}
}

func indexedTable(rows ...[]string) document.Stream {
	table := document.Block{ID: "t1", Type: document.TypeTable}
	stream := document.Stream{}
	for r, row := range rows {
		for c, text := range row {
			id := "c" + string(rune('a'+r)) + string(rune('a'+c))
			table.Children = append(table.Children, id)
			stream = append(stream, cell(id, r+1, c+1, text)...)
		}
	}
	return append(document.Stream{table}, stream...)
}

var _ = Describe("extractTableItems", func() {
	var (
		blocks document.Stream
		items  []LineItem
	)

	JustBeforeEach(func() {
		items = extractTableItems(blocks)
	})

	When("a table has a header and two complete rows", func() {
		BeforeEach(func() {
			blocks = indexedTable(
				[]string{"Description", "From", "To", "Amount"},
				[]string{"Internet Service", "09/01/2024", "09/30/2024", "$100.00"},
				[]string{"IP Addresses", "09/01/2024", "09/30/2024", "$10.00"},
			)
		})

		It("maps both data rows positionally", func() {
			Expect(items).To(Equal([]LineItem{
				{Description: "Internet Service", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$100.00"},
				{Description: "IP Addresses", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$10.00"},
			}))
		})
	})

	When("a data row has only three populated cells", func() {
		BeforeEach(func() {
			blocks = indexedTable(
				[]string{"Description", "From", "To", "Amount"},
				[]string{"Internet Service", "09/01/2024", "", "$100.00"},
				[]string{"IP Addresses", "09/01/2024", "09/30/2024", "$10.00"},
			)
		})

		It("drops that row", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Description).To(Equal("IP Addresses"))
		})
	})

	When("a row has an empty inner cell but four populated cells", func() {
		BeforeEach(func() {
			blocks = indexedTable(
				[]string{"Description", "From", "To", "Amount", "Note"},
				[]string{"Internet Service", "", "09/30/2024", "$100.00", "memo"},
			)
		})

		It("keeps every value in its own column", func() {
			Expect(items).To(Equal([]LineItem{
				{Description: "Internet Service", FromDate: "", ToDate: "09/30/2024", Amount: "$100.00"},
			}))
		})
	})

	When("cells arrive out of column order", func() {
		BeforeEach(func() {
			table := document.Block{ID: "t1", Type: document.TypeTable, Children: []string{"h", "d4", "d2", "d1", "d3"}}
			blocks = document.Stream{table,
				{ID: "h", Type: document.TypeCell, Row: 1, Column: 1, Text: "Header"},
				{ID: "d4", Type: document.TypeCell, Row: 2, Column: 4, Text: "$7.00"},
				{ID: "d2", Type: document.TypeCell, Row: 2, Column: 2, Text: "01/01/2024"},
				{ID: "d1", Type: document.TypeCell, Row: 2, Column: 1, Text: "Cross connect"},
				{ID: "d3", Type: document.TypeCell, Row: 2, Column: 3, Text: "01/31/2024"},
			}
		})

		It("orders the row by column", func() {
			Expect(items).To(Equal([]LineItem{
				{Description: "Cross connect", FromDate: "01/01/2024", ToDate: "01/31/2024", Amount: "$7.00"},
			}))
		})
	})

	When("cells carry no row index", func() {
		BeforeEach(func() {
			blocks = document.Stream{
				{ID: "t1", Type: document.TypeTable, Children: []string{"r1", "r2"}},
				{ID: "r1", Type: document.TypeCell, Children: []string{"h1", "h2", "h3", "h4"}},
				{ID: "r2", Type: document.TypeCell, Children: []string{"w1", "w2", "w3", "w4", "missing"}},
				{ID: "h1", Type: document.TypeWord, Text: "Description"},
				{ID: "h2", Type: document.TypeWord, Text: "From"},
				{ID: "h3", Type: document.TypeWord, Text: "To"},
				{ID: "h4", Type: document.TypeWord, Text: "Amount"},
				{ID: "w1", Type: document.TypeWord, Text: "Transit"},
				{ID: "w2", Type: document.TypeWord, Text: "09/01/2024"},
				{ID: "w3", Type: document.TypeWord, Text: "09/30/2024"},
				{ID: "w4", Type: document.TypeWord, Text: "$300.00"},
			}
		})

		It("treats each cell as a row of its children", func() {
			Expect(items).To(Equal([]LineItem{
				{Description: "Transit", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$300.00"},
			}))
		})
	})

	When("a table child is dangling or not a cell", func() {
		BeforeEach(func() {
			blocks = indexedTable(
				[]string{"Description", "From", "To", "Amount"},
				[]string{"Internet Service", "09/01/2024", "09/30/2024", "$100.00"},
			)
			blocks[0].Children = append([]string{"ghost", "cbb-w"}, blocks[0].Children...)
		})

		It("ignores it", func() {
			Expect(items).To(HaveLen(1))
		})
	})

	When("there is no table", func() {
		BeforeEach(func() {
			blocks = lineStream("Cogent Communications")
		})

		It("returns an empty, non-nil list", func() {
			Expect(items).NotTo(BeNil())
			Expect(items).To(BeEmpty())
		})
	})
})

var _ = Describe("scanLabels", func() {
	var (
		blocks document.Stream
		inv    Invoice
	)

	JustBeforeEach(func() {
		inv = scanLabels(cogentVendorName, cogentFingerprint, blocks)
	})

	When("labels carry their values inline", func() {
		BeforeEach(func() {
			blocks = lineStream(
				"Cogent Communications",
				"Invoice Date: 09/17/2024",
				"Due Date 10/17/2024",
				"Amount Due",
				"USD",
				"Total $1,234.56",
			)
		})

		It("recovers every field", func() {
			Expect(inv.VendorName).To(Equal(cogentVendorName))
			Expect(inv.InvoiceDate).To(Equal("09/17/2024"))
			Expect(inv.DueDate).To(Equal("10/17/2024"))
			Expect(inv.AmountDue).To(Equal("$1,234.56"))
		})
	})

	When("the terms say due upon receipt", func() {
		BeforeEach(func() {
			blocks = lineStream("Cogent Communications", "Terms: Due Upon Receipt")
		})

		It("uses the literal", func() {
			Expect(inv.DueDate).To(Equal(DueUponReceipt))
		})
	})

	When("no line has the invoice date label", func() {
		BeforeEach(func() {
			blocks = lineStream("Statement 8/5/2024", "Invoice Date", "09/17/2024")
		})

		It("falls back to the first dated line", func() {
			Expect(inv.InvoiceDate).To(Equal("8/5/2024"))
		})
	})

	When("the vendor text only appears in words", func() {
		BeforeEach(func() {
			blocks = document.Stream{
				{ID: "1", Type: document.TypeWord, Text: "Cogent"},
				{ID: "2", Type: document.TypeLine, Children: []string{"3", "4"}},
				{ID: "3", Type: document.TypeWord, Text: "Cogent"},
				{ID: "4", Type: document.TypeWord, Text: "Communications"},
			}
		})

		It("matches against resolved line text", func() {
			Expect(inv.VendorName).To(Equal(cogentVendorName))
		})
	})

	When("the vendor text is absent", func() {
		BeforeEach(func() {
			blocks = lineStream("Invoice Date 09/17/2024")
		})

		It("leaves the vendor empty", func() {
			Expect(inv.VendorName).To(BeEmpty())
		})
	})
})
