package extraction

import "strings"

// lookaheadWindow is how many following lines are searched for a label's value
const lookaheadWindow = 4

const (
	labelInvoiceDate = "Invoice Date"
	labelDueDate     = "Due Date"
	labelAmountDue   = "Amount Due"
	labelDescription = "description"
)

// lookahead returns the first of the next lookaheadWindow lines after i that
// accept matches
func lookahead(lines []string, i int, accept func(string) bool) string {
	for j := i + 1; j < len(lines) && j <= i+lookaheadWindow; j++ {
		if accept(lines[j]) {
			return lines[j]
		}
	}
	return ""
}

func findDueDate(lines []string, i int) string {
	if IsDueUponReceipt(lines[i]) {
		return DueUponReceipt
	}
	return lookahead(lines, i, func(s string) bool {
		return IsValidDate(s) || IsDueUponReceipt(s)
	})
}

func findAmountDue(lines []string, i int) string {
	if amount, ok := FindAmount(lines[i]); ok {
		return amount
	}
	return lookahead(lines, i, func(s string) bool {
		_, ok := MatchAmount(s)
		return ok
	})
}

// itemScan is the item-section state carried from one line to the next
type itemScan struct {
	active  bool
	current LineItem
}

// step consumes one line and returns the next state, plus the finished item
// when the line completed one. Any line mentioning "description" (re)starts the
// section with a blank item.
//
// An amount line only emits the item when description, fromDate and toDate
// are all set; otherwise the amount is kept on the pending item and may be
// overwritten by a later amount.
func (s itemScan) step(line string) (itemScan, *LineItem) {
	if containsFold(line, labelDescription) {
		return itemScan{active: true}, nil
	}
	if !s.active {
		return s, nil
	}
	if strings.Contains(line, labelAmountDue) {
		return itemScan{}, nil
	}
	if IsSectionHeader(line) {
		return s, nil
	}

	if _, ok := MatchAmount(line); ok {
		s.current.Amount = line
		if s.current.Description != "" && s.current.FromDate != "" && s.current.ToDate != "" {
			item := s.current
			s.current = LineItem{}
			return s, &item
		}
		return s, nil
	}

	if IsValidDate(line) {
		switch {
		case s.current.FromDate == "":
			s.current.FromDate = line
		case s.current.ToDate == "":
			s.current.ToDate = line
		}
		return s, nil
	}

	if s.current.Description == "" {
		s.current.Description = line
	} else {
		s.current.Description += " " + line
	}
	return s, nil
}

// scanLines runs the label lookaheads and the item-section state machine over
// the text of a document's LINE blocks
func scanLines(vendorName string, lines []string) Invoice {
	inv := newInvoice(vendorName)

	var scan itemScan
	for i, line := range lines {
		if inv.InvoiceDate == "" && strings.Contains(line, labelInvoiceDate) {
			inv.InvoiceDate = lookahead(lines, i, IsValidDate)
		}
		if inv.DueDate == "" && strings.Contains(line, labelDueDate) {
			inv.DueDate = findDueDate(lines, i)
		}
		if inv.AmountDue == "" && strings.Contains(line, labelAmountDue) {
			inv.AmountDue = findAmountDue(lines, i)
		}

		var item *LineItem
		scan, item = scan.step(line)
		if item != nil {
			inv.Items = append(inv.Items, *item)
		}
	}
	return inv
}
