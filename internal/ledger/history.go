package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Period is a named time window used to filter and summarize the saved
// collection. All periods except All are anchored at "now" and produce
// a category summary; All produces the flat, unsummarized view.
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
	PeriodAll       Period = "all"
)

// Periods lists every period token in display order.
var Periods = []Period{
	PeriodAll,
	PeriodDaily,
	PeriodWeekly,
	PeriodMonthly,
	PeriodQuarterly,
	PeriodYearly,
}

// ParsePeriod parses a period token, case-insensitively.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodDaily:
		return PeriodDaily, nil
	case PeriodWeekly:
		return PeriodWeekly, nil
	case PeriodMonthly:
		return PeriodMonthly, nil
	case PeriodQuarterly:
		return PeriodQuarterly, nil
	case PeriodYearly:
		return PeriodYearly, nil
	case PeriodAll, "":
		return PeriodAll, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Label returns the period's display name.
func (p Period) Label() string {
	if p == "" {
		return "All"
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// Range computes the inclusive [start, end] window for p anchored at
// now, in now's location. ok is false for All, which has no bounds.
//
// Weekly windows start on Monday: a Sunday anchor belongs to the week
// that began six days earlier. Quarterly windows cover the three-month
// quarter containing now.
func (p Period) Range(now time.Time) (start, end time.Time, ok bool) {
	loc := now.Location()
	y, m, d := now.Date()

	switch p {
	case PeriodDaily:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	case PeriodWeekly:
		offset := int(now.Weekday()) - 1
		if now.Weekday() == time.Sunday {
			offset = 6
		}
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	case PeriodMonthly:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	case PeriodQuarterly:
		q := (int(m) - 1) / 3
		start = time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 3, 0).Add(-time.Nanosecond)
	case PeriodYearly:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	default:
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// parseLocalDate parses an ISO YYYY-MM-DD string as midnight in local
// time. The components are split by hand so the date never travels
// through UTC; the round-trip check rejects out-of-range components
// that time.Date would silently normalize.
func parseLocalDate(s string) (time.Time, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 3)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	ty, tm, td := t.Date()
	if ty != year || int(tm) != month || td != day {
		return time.Time{}, false
	}
	return t, true
}

// FilterByPeriod returns the records whose transaction date falls
// inside p's window around now. All returns every record. Records with
// an absent or unparseable date are excluded from every bounded
// period.
func FilterByPeriod(records []SavedRecord, p Period, now time.Time) []SavedRecord {
	start, end, bounded := p.Range(now)
	if !bounded {
		out := make([]SavedRecord, len(records))
		copy(out, records)
		return out
	}

	out := make([]SavedRecord, 0, len(records))
	for _, r := range records {
		date, ok := r.ParseDate()
		if !ok {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortByDate orders records newest first for the flat view. Records
// with no parseable date sort as if dated at the epoch, so they land
// at the end. The sort is stable.
func SortByDate(records []SavedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		di, _ := records[i].ParseDate()
		dj, _ := records[j].ParseDate()
		return di.After(dj)
	})
}

// Summarize groups records by category and sums their amounts. Absent
// categories group under the Uncategorized label; absent amounts count
// as zero. Groups are ordered by descending total, ties keeping the
// order in which the group was first seen.
func Summarize(records []SavedRecord) []CategorySummary {
	index := make(map[string]int)
	summaries := make([]CategorySummary, 0)

	for _, r := range records {
		label := Uncategorized
		if r.Category != nil {
			label = string(*r.Category)
		}

		i, seen := index[label]
		if !seen {
			i = len(summaries)
			index[label] = i
			summaries = append(summaries, CategorySummary{Category: label})
		}

		if r.Amount != nil {
			summaries[i].Total += *r.Amount
		}
		summaries[i].Count++
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Total > summaries[j].Total
	})
	return summaries
}
