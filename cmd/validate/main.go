// Command validate performs integrity checks on an air-quality dataset CSV:
// schema presence, date-parse coverage, and a full analysis pass over every
// city. It reports per-phase results and exits non-zero on failure, which
// makes it usable as a CI gate for refreshed dataset snapshots.
//
// Usage:
//
//	go run ./cmd/validate -dataset data/mock/air_quality_mock.csv -min-date-coverage 0.9
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/air-quality-trends/internal/dataset"
	"github.com/couchcryptid/air-quality-trends/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	datasetPath := flag.String("dataset", "", "path to the dataset CSV")
	minCoverage := flag.Float64("min-date-coverage", 0.9, "minimum fraction of rows with a parseable date")
	flag.Parse()

	if *datasetPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*datasetPath, *minCoverage); code != 0 {
		os.Exit(code)
	}
}

func run(datasetPath string, minCoverage float64) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	fmt.Println("=== Air Quality Dataset Validation ===")
	fmt.Println()

	store, err := dataset.Load(datasetPath, 1, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	locations := store.Locations()
	rows, err := store.FetchRecords(locations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: fetch all records: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateShape(store, rows),
		validateDateCoverage(rows, minCoverage),
		validateAnalysis(rows, locations),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println()
	fmt.Println("all phases passed")
	return 0
}

// validateShape checks row/location counts and that the fetch round-trip
// returns every dataset row.
func validateShape(store *dataset.Store, rows []domain.Observation) *phase {
	p := &phase{name: "dataset shape"}

	fmt.Printf("rows: %d, distinct locations: %d\n", store.Rows(), len(store.Locations()))

	if len(rows) != store.Rows() {
		p.errorf("fetched %d rows but dataset has %d", len(rows), store.Rows())
	}
	for i, row := range rows {
		if row.City == "" {
			p.errorf("row %d has an empty City", i)
			break
		}
	}
	return p
}

// validateDateCoverage measures the parseable-date fraction against the
// configured floor, surfacing how many rows trend analysis would drop.
func validateDateCoverage(rows []domain.Observation, minCoverage float64) *phase {
	p := &phase{name: "date coverage"}

	parseable := 0
	for _, row := range rows {
		if _, ok := domain.ParseObservationDate(row.Date); ok {
			parseable++
		}
	}
	coverage := float64(parseable) / float64(len(rows))
	fmt.Printf("date coverage: %d/%d rows (%.1f%%), %d would be dropped from trend analysis\n",
		parseable, len(rows), coverage*100, len(rows)-parseable)

	if coverage < minCoverage {
		p.errorf("date coverage %.3f below minimum %.3f", coverage, minCoverage)
	}
	return p
}

// validateAnalysis runs the full analyzer over every city and checks the
// summary's internal consistency.
func validateAnalysis(rows []domain.Observation, locations []domain.LocationRef) *phase {
	p := &phase{name: "full analysis"}

	summary, err := domain.Analyze(rows)
	if err != nil {
		p.errorf("analyze: %v", err)
		return p
	}

	cities := make(map[string]bool, len(locations))
	for _, loc := range locations {
		cities[loc.City] = true
	}
	if len(summary.Cities) != len(cities) {
		p.errorf("summary has %d cities, dataset has %d distinct city names", len(summary.Cities), len(cities))
	}

	trends := map[string]int{}
	for city, result := range summary.Cities {
		if !cities[city] {
			p.errorf("summary contains unknown city %q", city)
		}
		if result.Note == "" {
			p.errorf("city %q has an empty note", city)
		}
		switch result.Trend {
		case "", domain.TrendImproving, domain.TrendWorsening, domain.TrendStable:
			trends[result.Trend]++
		default:
			p.errorf("city %q has unknown trend %q", city, result.Trend)
		}
	}
	fmt.Printf("trends: %d improving, %d worsening, %d stable, %d snapshot-only (dropped dates: %d)\n",
		trends[domain.TrendImproving], trends[domain.TrendWorsening],
		trends[domain.TrendStable], trends[""], summary.DroppedDates)

	return p
}
