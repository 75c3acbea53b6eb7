package ledger

import (
	"fmt"
	"strings"
)

// CSV export builds the payload by hand rather than with
// encoding/csv: the export contract always quotes the merchant column
// (and only that column) and joins rows with bare \n, neither of which
// encoding/csv can be told to do.

// quoteField wraps s in double quotes, doubling any embedded quotes.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// RecordsCSV renders the flat transaction view. Absent fields render
// as the literal N/A; amounts carry two decimal places.
func RecordsCSV(records []SavedRecord) string {
	var b strings.Builder
	b.WriteString("Date,Merchant,Category,Amount")

	for _, r := range records {
		date := "N/A"
		if r.Date != nil {
			date = *r.Date
		}
		merchant := "N/A"
		if r.Merchant != nil {
			merchant = *r.Merchant
		}
		category := "N/A"
		if r.Category != nil {
			category = string(*r.Category)
		}
		amount := "N/A"
		if r.Amount != nil {
			amount = fmt.Sprintf("%.2f", *r.Amount)
		}

		b.WriteString("\n")
		b.WriteString(date)
		b.WriteString(",")
		b.WriteString(quoteField(merchant))
		b.WriteString(",")
		b.WriteString(category)
		b.WriteString(",")
		b.WriteString(amount)
	}
	return b.String()
}

// SummariesCSV renders the category summary view. Totals are sums and
// therefore never absent.
func SummariesCSV(summaries []CategorySummary) string {
	var b strings.Builder
	b.WriteString("Category,Total Amount,Transactions")

	for _, s := range summaries {
		b.WriteString("\n")
		b.WriteString(quoteField(s.Category))
		b.WriteString(",")
		b.WriteString(fmt.Sprintf("%.2f", s.Total))
		b.WriteString(",")
		b.WriteString(fmt.Sprintf("%d", s.Count))
	}
	return b.String()
}

// ExportFilename names the download after the active period.
func ExportFilename(p Period) string {
	if p == "" {
		p = PeriodAll
	}
	return fmt.Sprintf("transactions_%s.csv", string(p))
}
