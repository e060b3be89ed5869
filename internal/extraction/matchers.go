package extraction

import (
	"regexp"
	"strings"
)

// DueUponReceipt is the due date recorded when an invoice is payable on receipt
const DueUponReceipt = "Due Upon Receipt"

var (
	// M[M]/D[D]/YY[YY], month 1-12, day 1-31; day counts per month are not checked
	reDate       = regexp.MustCompile(`^(0?[1-9]|1[0-2])/(0?[1-9]|[12][0-9]|3[01])/(\d{2}|\d{4})$`)
	reAmountLine = regexp.MustCompile(`^\$[\d,()-]+\.\d{2}$`)
	reAmount     = regexp.MustCompile(`\$[\d,()-]+\.\d{2}`)
)

var sectionHeaders = map[string]bool{
	"DATE":        true,
	"DESCRIPTION": true,
	"FROM":        true,
	"TO":          true,
	"PRICE":       true,
	"AMOUNT":      true,
	"ITEM":        true,
	"":            true,
}

// IsValidDate reports whether text is exactly a MM/DD/YY or MM/DD/YYYY date
func IsValidDate(text string) bool {
	return reDate.MatchString(text)
}

// MatchAmount returns text when the whole of it is a currency amount such as $1,234.56
func MatchAmount(text string) (string, bool) {
	m := reAmountLine.FindString(text)
	return m, m != ""
}

// FindAmount returns the first currency amount embedded in text
func FindAmount(text string) (string, bool) {
	m := reAmount.FindString(text)
	return m, m != ""
}

// IsDueUponReceipt reports whether text mentions "due upon receipt" in any case
func IsDueUponReceipt(text string) bool {
	return containsFold(text, "due upon receipt")
}

// IsSectionHeader reports whether text is table header noise or blank
func IsSectionHeader(text string) bool {
	return sectionHeaders[strings.ToUpper(text)]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
