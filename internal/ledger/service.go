package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/snapledger/snapledger/internal/extraction"
)

// TimeSource provides the current time. Injected so the year rule and
// period windows are testable.
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Source marks where a record came from. Manual entries carry a
// stricter date requirement than scanned ones.
type Source string

const (
	SourceScan   Source = "scan"
	SourceManual Source = "manual"
)

// Service orchestrates extraction, validation, storage, and the
// history views.
type Service struct {
	store      Store
	extractor  extraction.Extractor
	timeSource TimeSource
}

// NewService creates a Service backed by the real clock.
func NewService(store Store, extractor extraction.Extractor) *Service {
	return &Service{
		store:      store,
		extractor:  extractor,
		timeSource: defaultTimeSource{},
	}
}

// NewServiceWithTimeSource creates a Service with an injected clock
// for testing.
func NewServiceWithTimeSource(store Store, extractor extraction.Extractor, ts TimeSource) *Service {
	return &Service{
		store:      store,
		extractor:  extractor,
		timeSource: ts,
	}
}

// Analyze sends the receipt image for extraction and returns the
// unsaved record. Nothing is persisted; the caller reviews the result
// and saves it explicitly.
func (s *Service) Analyze(ctx context.Context, filename string, data []byte, contentType string) (*Record, error) {
	result, err := s.extractor.Extract(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to extract transaction from receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("extracting transaction: %w", err)
	}

	rec := &Record{
		Merchant: result.Merchant,
		Amount:   result.Amount,
		Date:     result.Date,
	}
	if result.Category != nil {
		// Stored verbatim; unrecognized values only fall back to
		// the Other style at display time.
		c := Category(*result.Category)
		rec.Category = &c
	}
	return rec, nil
}

// Save validates a record and appends it to the store. Scanned records
// may lack a date; manual entries may not. A present date must fall in
// the current year either way.
func (s *Service) Save(ctx context.Context, rec Record, source Source) (*SavedRecord, error) {
	if err := s.validate(rec, source); err != nil {
		return nil, err
	}

	saved, err := s.store.Append(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("appending transaction: %w", err)
	}
	return saved, nil
}

func (s *Service) validate(rec Record, source Source) error {
	now := s.timeSource.Now()

	if rec.Date == nil {
		if source == SourceManual {
			return &ValidationError{Field: "transaction_date", Message: "a date is required"}
		}
	} else {
		date, ok := parseLocalDate(*rec.Date)
		if !ok {
			return &ValidationError{Field: "transaction_date", Message: "date must be in YYYY-MM-DD format"}
		}
		if date.Year() != now.Year() {
			return yearMismatchError(now.Year())
		}
	}

	if rec.Amount != nil && *rec.Amount < 0 {
		return &ValidationError{Field: "total_amount", Message: "amount cannot be negative"}
	}

	return nil
}

// History returns the flat view for a period: filtered to its window
// and sorted newest first.
func (s *Service) History(ctx context.Context, p Period) ([]SavedRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		// Degrade to whatever the store could give us; an
		// unreadable collection reads as empty.
		return records, err
	}

	filtered := FilterByPeriod(records, p, s.timeSource.Now())
	SortByDate(filtered)
	return filtered, nil
}

// Summary returns the per-category breakdown for a period. All has no
// summary; its flat view is the display.
func (s *Service) Summary(ctx context.Context, p Period) ([]CategorySummary, error) {
	if p == PeriodAll {
		return nil, fmt.Errorf("the All period has no summary view")
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(FilterByPeriod(records, p, s.timeSource.Now())), nil
}

// Delete removes a saved record by ID. Unknown IDs are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return nil
}

// ExportCSV renders the CSV payload for the requested period and view,
// matching what is on screen: the flat record table or the category
// summary table.
func (s *Service) ExportCSV(ctx context.Context, p Period, summary bool) (filename, payload string, err error) {
	if summary && p != PeriodAll {
		summaries, err := s.Summary(ctx, p)
		if err != nil {
			return "", "", err
		}
		return ExportFilename(p), SummariesCSV(summaries), nil
	}

	records, err := s.History(ctx, p)
	if err != nil {
		return "", "", err
	}
	return ExportFilename(p), RecordsCSV(records), nil
}

// Watch exposes the store's subscription.
func (s *Service) Watch(ctx context.Context) (<-chan []SavedRecord, error) {
	return s.store.Watch(ctx)
}
