package ledger

import "time"

// Record is a single transaction, extracted from a receipt or entered by
// hand. Every field is independently optional: extraction may fail to
// identify any subset of them, and absent fields stay nil all the way
// through storage and display.
type Record struct {
	Merchant *string   `json:"transaction_name"`
	Amount   *float64  `json:"total_amount"`
	Date     *string   `json:"transaction_date"` // ISO 8601 calendar date (YYYY-MM-DD)
	Category *Category `json:"category"`
}

// SavedRecord is a Record that has been persisted. The ID is opaque and
// stable for the lifetime of the record; it is used only for lookup and
// removal, never for ordering.
type SavedRecord struct {
	ID string `json:"id"`
	Record
	CreatedAt time.Time `json:"created_at"`
}

// CategorySummary is a per-category aggregate over the records in a
// period. It is derived on every request and never persisted.
type CategorySummary struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// ParseDate parses the record's transaction date as a local calendar
// date. The manual year/month/day split keeps the interpretation in
// local time; time.Parse would yield UTC midnight and shift the day for
// users in other zones.
func (r Record) ParseDate() (time.Time, bool) {
	if r.Date == nil {
		return time.Time{}, false
	}
	return parseLocalDate(*r.Date)
}
