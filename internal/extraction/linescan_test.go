package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("scanLines", func() {
	var (
		lines []string
		inv   Invoice
	)

	JustBeforeEach(func() {
		inv = scanLines(cogentVendorName, lines)
	})

	When("the invoice date follows its label", func() {
		BeforeEach(func() {
			lines = []string{"Invoice Date", "Account", "09/17/2024", "Invoice Date", "10/01/2024"}
		})

		It("takes the first valid date after the label", func() {
			Expect(inv.InvoiceDate).To(Equal("09/17/2024"))
		})
	})

	When("the date is the fourth line after the label", func() {
		BeforeEach(func() {
			lines = []string{"Invoice Date", "a", "b", "c", "09/17/2024"}
		})

		It("is inside the window", func() {
			Expect(inv.InvoiceDate).To(Equal("09/17/2024"))
		})
	})

	When("the date is the fifth line after the label", func() {
		BeforeEach(func() {
			lines = []string{"Invoice Date", "a", "b", "c", "d", "09/17/2024"}
		})

		It("is not found", func() {
			Expect(inv.InvoiceDate).To(BeEmpty())
		})
	})

	When("the due date label line says due upon receipt", func() {
		BeforeEach(func() {
			lines = []string{"Due Date: Due upon receipt", "10/17/2024"}
		})

		It("records the literal", func() {
			Expect(inv.DueDate).To(Equal(DueUponReceipt))
		})
	})

	When("a following line says due upon receipt", func() {
		BeforeEach(func() {
			lines = []string{"Due Date", "Due upon receipt"}
		})

		It("records that line verbatim", func() {
			Expect(inv.DueDate).To(Equal("Due upon receipt"))
		})
	})

	When("a following line is a date", func() {
		BeforeEach(func() {
			lines = []string{"Due Date", "Terms", "10/17/2024"}
		})

		It("records the date", func() {
			Expect(inv.DueDate).To(Equal("10/17/2024"))
		})
	})

	When("the amount due is on the label line", func() {
		BeforeEach(func() {
			lines = []string{"Amount Due $250.00", "$999.00"}
		})

		It("prefers the same line", func() {
			Expect(inv.AmountDue).To(Equal("$250.00"))
		})
	})

	When("the amount due follows the label", func() {
		BeforeEach(func() {
			lines = []string{"Amount Due", "USD", "$1,250.00"}
		})

		It("takes the first whole-line amount", func() {
			Expect(inv.AmountDue).To(Equal("$1,250.00"))
		})
	})

	When("an item spans several description lines", func() {
		BeforeEach(func() {
			lines = []string{
				"Description",
				"Internet Service", "100 Mbps", "09/01/2024", "09/30/2024", "$100.00",
				"IP Addresses", "09/01/2024", "09/30/2024", "$10.00",
				"Amount Due", "$110.00",
			}
		})

		It("emits each completed item in order", func() {
			Expect(inv.Items).To(Equal([]LineItem{
				{Description: "Internet Service 100 Mbps", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$100.00"},
				{Description: "IP Addresses", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$10.00"},
			}))
		})

		It("does not treat lines after the section as items", func() {
			Expect(inv.Items).To(HaveLen(2))
			Expect(inv.AmountDue).To(Equal("$110.00"))
		})
	})

	When("an item has a third date", func() {
		BeforeEach(func() {
			lines = []string{"Description", "Service", "09/01/2024", "09/30/2024", "10/15/2024", "$100.00", "Amount Due"}
		})

		It("drops the extra date", func() {
			Expect(inv.Items).To(Equal([]LineItem{
				{Description: "Service", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$100.00"},
			}))
		})
	})

	When("an amount arrives before the item is complete", func() {
		BeforeEach(func() {
			lines = []string{
				"Description",
				"Setup fee", "$50.00",
				"Internet", "09/01/2024", "09/30/2024", "$100.00",
				"Amount Due",
			}
		})

		It("keeps building the same item and overwrites the amount", func() {
			Expect(inv.Items).To(Equal([]LineItem{
				{Description: "Setup fee Internet", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$100.00"},
			}))
		})
	})

	When("a description line appears inside the section", func() {
		BeforeEach(func() {
			lines = []string{"Description", "Setup fee", "Item Description", "Internet Service", "09/01/2024", "09/30/2024", "$100.00"}
		})

		It("restarts the item without adding the line", func() {
			Expect(inv.Items).To(Equal([]LineItem{
				{Description: "Internet Service", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$100.00"},
			}))
		})
	})

	When("the section reopens after Amount Due", func() {
		BeforeEach(func() {
			lines = []string{
				"Description", "Service", "09/01/2024", "09/30/2024", "$5.00", "Amount Due",
				"Notes", "Description", "Credit", "09/01/2024", "09/30/2024", "$1.00",
			}
		})

		It("collects items from both sections", func() {
			Expect(inv.Items).To(HaveLen(2))
			Expect(inv.Items[1].Description).To(Equal("Credit"))
		})
	})

	When("header and blank lines appear in the section", func() {
		BeforeEach(func() {
			lines = []string{"Description", "FROM", "", "Service", "to", "09/01/2024", "Price", "09/30/2024", "$5.00", "Amount Due"}
		})

		It("skips them", func() {
			Expect(inv.Items).To(Equal([]LineItem{
				{Description: "Service", FromDate: "09/01/2024", ToDate: "09/30/2024", Amount: "$5.00"},
			}))
		})
	})

	When("nothing is found", func() {
		BeforeEach(func() {
			lines = []string{"Cogent Communications"}
		})

		It("returns empty sentinels and no items", func() {
			Expect(inv.VendorName).To(Equal(cogentVendorName))
			Expect(inv.InvoiceDate).To(BeEmpty())
			Expect(inv.DueDate).To(BeEmpty())
			Expect(inv.AmountDue).To(BeEmpty())
			Expect(inv.Items).NotTo(BeNil())
			Expect(inv.Items).To(BeEmpty())
		})
	})
})

var _ = Describe("itemScan", func() {
	It("activates on a description line without consuming it as content", func() {
		s, item := itemScan{}.step("Item Description")
		Expect(item).To(BeNil())
		Expect(s.active).To(BeTrue())
		Expect(s.current).To(Equal(LineItem{}))
	})

	It("resets the pending item on a description line while active", func() {
		s := itemScan{active: true, current: LineItem{Description: "Setup fee", Amount: "$5.00"}}
		next, item := s.step("Item Description")
		Expect(item).To(BeNil())
		Expect(next).To(Equal(itemScan{active: true}))
	})

	It("ignores lines while inactive", func() {
		s, item := itemScan{}.step("$100.00")
		Expect(item).To(BeNil())
		Expect(s).To(Equal(itemScan{}))
	})

	It("deactivates on Amount Due and discards the pending item", func() {
		s := itemScan{active: true, current: LineItem{Description: "partial"}}
		s, item := s.step("Amount Due")
		Expect(item).To(BeNil())
		Expect(s).To(Equal(itemScan{}))
	})

	It("does not mutate the pending item on header lines", func() {
		s := itemScan{active: true, current: LineItem{Description: "x"}}
		next, _ := s.step("AMOUNT")
		Expect(next).To(Equal(s))
	})

	It("leaves the previous state untouched", func() {
		s := itemScan{active: true}
		_, _ = s.step("Service")
		Expect(s.current.Description).To(BeEmpty())
	})
})
