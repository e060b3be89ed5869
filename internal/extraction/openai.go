package extraction

import (
	"regexp"
	"strings"

	"github.com/zombor/invoice-tracker/internal/document"
)

const (
	openAIVendorName = "OpenAI, LLC"
	openAIDueDate    = "Paid"

	chatGPTTeamMarker      = "ChatGPT Team Subscription"
	chatGPTTeamDescription = "ChatGPT Team Subscription 2 seats"
	chatGPTTeamFrom        = "2024/09/17"
	chatGPTTeamTo          = "2024/10/17"
	chatGPTTeamAmount      = "$60.00"
)

var (
	reISODate     = regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`)
	reLooseAmount = regexp.MustCompile(`\$[\d,]+(\.\d{2})?`)
)

// extractOpenAI reads OpenAI receipts in a single pass. OpenAI invoices are
// already paid, and the last date and amount on the page win.
func extractOpenAI(blocks document.Stream) Invoice {
	inv := newInvoice(openAIVendorName)
	inv.DueDate = openAIDueDate

	for _, text := range blocks.Lines() {
		if d := reISODate.FindString(text); d != "" {
			inv.InvoiceDate = d
		}
		amount := reLooseAmount.FindString(text)
		if amount != "" {
			inv.AmountDue = amount
		}

		if strings.Contains(text, chatGPTTeamMarker) {
			item := LineItem{
				Description: chatGPTTeamDescription,
				FromDate:    chatGPTTeamFrom,
				ToDate:      chatGPTTeamTo,
				Amount:      chatGPTTeamAmount,
			}
			if amount != "" {
				item.Amount = amount
			}
			inv.Items = append(inv.Items, item)
		}
	}
	return inv
}
