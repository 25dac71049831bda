package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// slopeSignificance is the two-sided p-value threshold below which a
// regression slope counts as a real trend rather than noise.
const slopeSignificance = 0.05

// NoteSnapshot is attached when a city group has too few dated rows for a
// trend and only snapshot statistics are reported.
const NoteSnapshot = "Snapshot summary; not enough data for trend analysis."

// Analyze groups observations by city and computes each group's summary
// statistics and, where enough dated rows exist, a trend classification.
//
// Rows without a parseable Date still contribute to the overall AQI, category
// mode, and pollutant means; they are only excluded from the regression. The
// number of such exclusions is reported in the summary's DroppedDates.
func Analyze(rows []Observation) (*AnalysisSummary, error) {
	if len(rows) == 0 {
		return nil, &InsufficientDataError{Reason: "no records to analyze"}
	}

	hasDates := false
	for _, row := range rows {
		if strings.TrimSpace(row.Date) != "" {
			hasDates = true
			break
		}
	}

	var order []string
	groups := make(map[string][]Observation)
	for _, row := range rows {
		if _, seen := groups[row.City]; !seen {
			order = append(order, row.City)
		}
		groups[row.City] = append(groups[row.City], row)
	}
	if len(groups) == 0 {
		return nil, &EmptyAnalysisError{}
	}

	dropped := 0
	cities := make(map[string]TrendResult, len(groups))
	for _, city := range order {
		result, droppedInGroup := summarizeCity(groups[city], hasDates)
		dropped += droppedInGroup
		cities[city] = result
	}

	return &AnalysisSummary{
		GeneratedAt:  clock.Now().UTC(),
		Cities:       cities,
		DroppedDates: dropped,
	}, nil
}

// summarizeCity computes one city's TrendResult and the number of rows whose
// Date failed best-effort parsing.
func summarizeCity(group []Observation, hasDates bool) (TrendResult, int) {
	result := TrendResult{
		OverallAQI:       round2(meanAQI(group)),
		AQICategory:      categoryMode(group),
		PrimaryPollutant: primaryPollutant(group),
	}

	if !hasDates {
		result.Note = NoteSnapshot
		return result, 0
	}

	type datedPoint struct {
		date time.Time
		aqi  float64
	}
	var points []datedPoint
	dropped := 0
	for _, row := range group {
		date, ok := ParseObservationDate(row.Date)
		if !ok {
			dropped++
			continue
		}
		if math.IsNaN(row.AQIValue) {
			continue
		}
		points = append(points, datedPoint{date: date, aqi: row.AQIValue})
	}

	if len(points) < minTrendPoints {
		result.Note = NoteSnapshot
		return result, dropped
	}

	sort.Slice(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })

	earliest := points[0].date
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = math.Floor(p.date.Sub(earliest).Hours() / 24)
		ys[i] = p.aqi
	}

	line, err := FitTrendLine(xs, ys)
	if err != nil {
		result.Note = NoteSnapshot
		return result, dropped
	}

	switch {
	case line.PValue < slopeSignificance && line.Slope < 0:
		result.Trend = TrendImproving
	case line.PValue < slopeSignificance:
		result.Trend = TrendWorsening
	default:
		result.Trend = TrendStable
	}
	result.Note = fmt.Sprintf("Trend based on %d data points (r-squared: %.2f).", line.N, line.R*line.R)

	return result, dropped
}

// meanAQI averages the group's AQI values, skipping NaN cells. A group with
// no valid values averages to 0.
func meanAQI(group []Observation) float64 {
	sum, n := 0.0, 0
	for _, row := range group {
		if math.IsNaN(row.AQIValue) {
			continue
		}
		sum += row.AQIValue
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// categoryMode returns the most frequent non-empty AQI category, breaking
// ties by first occurrence. Returns "N/A" when the group has no categories.
func categoryMode(group []Observation) string {
	counts := make(map[string]int)
	var order []string
	for _, row := range group {
		cat := strings.TrimSpace(row.AQICategory)
		if cat == "" {
			continue
		}
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
	}

	best, bestCount := NotAvailable, 0
	for _, cat := range order {
		if counts[cat] > bestCount {
			best, bestCount = cat, counts[cat]
		}
	}
	return best
}

// primaryPollutant returns the pollutant with the strictly largest mean
// sub-score, keeping the first in enumeration order on ties. Returns "N/A"
// when no pollutant column has a value in the group.
func primaryPollutant(group []Observation) string {
	best := NotAvailable
	bestMean := math.Inf(-1)
	for _, name := range Pollutants {
		sum, n := 0.0, 0
		for _, row := range group {
			if v := row.PollutantAQI(name); v != nil && !math.IsNaN(*v) {
				sum += *v
				n++
			}
		}
		if n == 0 {
			continue
		}
		if mean := sum / float64(n); mean > bestMean {
			best, bestMean = name, mean
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
