package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseObservationDate(t *testing.T) {
	day := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		expected time.Time
		ok       bool
	}{
		{"iso date", "2024-03-17", day, true},
		{"iso datetime drops time", "2024-03-17 14:30:00", day, true},
		{"rfc3339 drops time", "2024-03-17T14:30:00Z", day, true},
		{"slash iso", "2024/03/17", day, true},
		{"us slashes", "03/17/2024", day, true},
		{"short us slashes", "3/17/2024", day, true},
		{"day month year", "17-03-2024", day, true},
		{"month name", "17 Mar 2024", day, true},
		{"comma month name", "Mar 17, 2024", day, true},
		{"full month name", "March 17, 2024", day, true},
		{"surrounding whitespace", "  2024-03-17  ", day, true},
		{"empty", "", time.Time{}, false},
		{"whitespace only", "   ", time.Time{}, false},
		{"garbage", "not-a-date", time.Time{}, false},
		{"numeric garbage", "2024031799", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseObservationDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, parsed)
			}
		})
	}
}
