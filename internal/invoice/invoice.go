package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zombor/invoice-tracker/internal/extraction"
)

// Invoice is a stored invoice document together with its extracted fields
type Invoice struct {
	ID          string            `json:"id"`
	Filename    string            `json:"filename"`
	ContentType string            `json:"content_type"`
	Vendor      extraction.Vendor `json:"vendor"`
	extraction.Invoice
	PaymentID string    `json:"payment_id,omitempty"` // ID of the payment that settled this invoice
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Paid reports whether the invoice has been settled by a payment
func (i *Invoice) Paid() bool {
	return i.PaymentID != ""
}

// Payment settles one or more invoices
type Payment struct {
	ID          string    `json:"id"`
	InvoiceIDs  []string  `json:"invoice_ids"`
	TotalAmount int64     `json:"total_amount"` // Total amount in cents
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	reCents      = regexp.MustCompile(`^(\d+)(?:\.(\d{2}))?$`)
	centsCleaner = strings.NewReplacer("$", "", ",", "", "(", "", ")", "", "-", "", " ", "")
)

// ParseCents converts an extracted amount such as "$1,234.56" to cents.
// Parentheses or a minus sign make the amount negative.
func ParseCents(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := strings.ContainsAny(s, "(-")
	m := reCents.FindStringSubmatch(centsCleaner.Replace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	cents, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	cents *= 100
	if m[2] != "" {
		frac, _ := strconv.ParseInt(m[2], 10, 64)
		cents += frac
	}
	if negative {
		cents = -cents
	}
	return cents, nil
}
