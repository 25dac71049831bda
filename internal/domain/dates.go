package domain

import (
	"strings"
	"time"
)

// dateLayouts lists the formats observed in the dataset's Date column, tried
// in order. ISO variants come first because they dominate the data.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// ParseObservationDate parses a raw Date cell on a best-effort basis.
// Unparsable or empty values report ok=false; the row is then excluded from
// date-dependent computation instead of failing the whole analysis.
// Sub-day time components are discarded: trend analysis works at whole-day
// granularity.
func ParseObservationDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
