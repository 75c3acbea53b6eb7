package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseResultJSON parses the model's textual response as the
// four-field record. The response schema should guarantee clean JSON,
// but models occasionally wrap output in markdown fences anyway.
func parseResultJSON(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrUnparseable)
	}
	text = text[startIdx : endIdx+1]

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	normalizeResult(&result)
	return &result, nil
}

// normalizeResult tidies the parsed fields in place. A date the model
// returned in a recognizable non-ISO format is rewritten to
// YYYY-MM-DD; one that cannot be read at all becomes null, matching
// the null-on-uncertainty contract.
func normalizeResult(r *Result) {
	if r.Merchant != nil {
		m := strings.TrimSpace(*r.Merchant)
		if m == "" {
			r.Merchant = nil
		} else {
			r.Merchant = &m
		}
	}

	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		r.Category = nil
	}

	if r.Date != nil {
		if normalized, ok := normalizeDate(*r.Date); ok {
			r.Date = &normalized
		} else {
			r.Date = nil
		}
	}
}

// normalizeDate coerces common date formats to ISO YYYY-MM-DD.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
	}
	for _, format := range formats {
		if d, err := time.Parse(format, s); err == nil {
			return d.Format("2006-01-02"), true
		}
	}
	return "", false
}
