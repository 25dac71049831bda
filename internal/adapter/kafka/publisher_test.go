package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/air-quality-trends/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	generated := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	cs := citySummary{
		City: "Lahore",
		Result: domain.TrendResult{
			OverallAQI:       182.5,
			AQICategory:      "Unhealthy",
			PrimaryPollutant: "PM2.5",
			Trend:            domain.TrendWorsening,
			Note:             "Trend based on 4 data points (r-squared: 0.96).",
		},
		GeneratedAt: generated,
	}

	msg, err := serializeToMessage(cs)
	require.NoError(t, err)

	assert.Equal(t, []byte("Lahore"), msg.Key)

	var decoded citySummary
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, cs, decoded)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "generated_at", msg.Headers[0].Key)
	assert.Equal(t, []byte("2024-04-01T12:00:00Z"), msg.Headers[0].Value)
	assert.Equal(t, "trend", msg.Headers[1].Key)
	assert.Equal(t, []byte("Worsening"), msg.Headers[1].Value)
}

func TestSerializeToMessage_SnapshotOmitsTrendHeader(t *testing.T) {
	cs := citySummary{
		City: "Oslo",
		Result: domain.TrendResult{
			OverallAQI:  22.5,
			AQICategory: "Good",
			Note:        "Snapshot summary; not enough data for trend analysis.",
		},
		GeneratedAt: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(cs)
	require.NoError(t, err)

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "generated_at", msg.Headers[0].Key)
}
