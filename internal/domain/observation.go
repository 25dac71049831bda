package domain

import "time"

// Pollutant names in their fixed enumeration order. Primary-pollutant
// selection breaks ties by keeping the first name whose mean was seen,
// so this order is part of the analysis contract.
var Pollutants = []string{"PM2.5", "Ozone", "NO2", "CO"}

// Trend classification labels produced by Analyze.
const (
	TrendImproving = "Improving"
	TrendWorsening = "Worsening"
	TrendStable    = "Stable"
)

// NotAvailable is the literal placeholder used when a group has no usable
// category or pollutant values.
const NotAvailable = "N/A"

// Observation is one dataset row. JSON tags mirror the CSV header of the
// world air-quality-index dataset so rows round-trip through the tool
// endpoints without renaming.
type Observation struct {
	City        string  `json:"City"`
	Country     string  `json:"Country"`
	Date        string  `json:"Date,omitempty"` // raw, irregularly formatted; see dates.go
	AQIValue    float64 `json:"AQI Value"`
	AQICategory string  `json:"AQI Category,omitempty"`

	// Per-pollutant AQI sub-scores. Nil when the column is absent or the
	// cell is empty; a missing column simply makes that pollutant
	// ineligible for primary-pollutant selection.
	PM25AQI  *float64 `json:"PM2.5 AQI Value,omitempty"`
	OzoneAQI *float64 `json:"Ozone AQI Value,omitempty"`
	NO2AQI   *float64 `json:"NO2 AQI Value,omitempty"`
	COAQI    *float64 `json:"CO AQI Value,omitempty"`
}

// PollutantAQI returns the sub-score for a pollutant by its canonical name.
func (o Observation) PollutantAQI(name string) *float64 {
	switch name {
	case "PM2.5":
		return o.PM25AQI
	case "Ozone":
		return o.OzoneAQI
	case "NO2":
		return o.NO2AQI
	case "CO":
		return o.COAQI
	default:
		return nil
	}
}

// LocationRef identifies a city by its (City, Country) pair. Identity is the
// pair itself; refs are derived by projection and deduplication from the
// dataset, never created independently.
type LocationRef struct {
	City    string `json:"City"`
	Country string `json:"Country"`
}

// TrendResult is the per-city analysis output.
type TrendResult struct {
	OverallAQI       float64 `json:"overall_aqi"`       // mean AQI, rounded to 2 decimals
	AQICategory      string  `json:"aqi_category"`      // statistical mode, or "N/A"
	PrimaryPollutant string  `json:"primary_pollutant"` // highest mean sub-score, or "N/A"
	Trend            string  `json:"trend,omitempty"`   // present only with >=3 dated rows
	Note             string  `json:"note"`
}

// AnalysisSummary maps city names to their trend results. DroppedDates counts
// rows excluded from date-dependent computation because their Date could not
// be parsed; the count is surfaced so best-effort coercion stays observable.
type AnalysisSummary struct {
	GeneratedAt  time.Time              `json:"generated_at"`
	Cities       map[string]TrendResult `json:"cities"`
	DroppedDates int                    `json:"dropped_dates"`
}

// CityRank is one entry of a multi-city comparison, ordered best air first.
type CityRank struct {
	Rank     int         `json:"rank"`
	City     string      `json:"city"`
	DeltaAQI float64     `json:"delta_aqi"` // overall AQI above the best-ranked city
	Result   TrendResult `json:"result"`
}

// Comparison ranks analyzed cities by overall AQI, lowest (cleanest) first.
type Comparison struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Ranking     []CityRank `json:"ranking"`
}
