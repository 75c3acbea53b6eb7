package extraction

import (
	"context"
	"errors"
)

// Result holds the four transaction fields extracted from a receipt.
// Every field is nullable: the extraction service returns an explicit
// null for anything it cannot read with confidence.
type Result struct {
	Merchant *string  `json:"transaction_name"`
	Amount   *float64 `json:"total_amount"`
	Date     *string  `json:"transaction_date"` // ISO 8601 (YYYY-MM-DD)
	Category *string  `json:"category"`
}

// ErrUnparseable means the service responded but its output could not
// be read as the four-field record. It is distinct from transport
// failures so the user sees a different message.
var ErrUnparseable = errors.New("could not read transaction details from the receipt")

// Extractor analyzes a receipt image and extracts transaction fields.
// Every call is a fresh request: no retries, no caching. The caller's
// context governs cancellation.
type Extractor interface {
	Extract(ctx context.Context, imageData []byte, mimeType string) (*Result, error)
	Close() error
}
