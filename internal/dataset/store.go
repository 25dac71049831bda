// Package dataset loads the air-quality CSV into an immutable in-process
// store. The store is created once at startup, is read-only for the process
// lifetime, and needs no teardown beyond process exit.
package dataset

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/air-quality-trends/internal/domain"
)

// Required dataset columns. Pollutant sub-score columns are optional; a
// missing one only removes that pollutant from primary-pollutant selection.
var requiredColumns = []string{"City", "Country", "AQI Value"}

const (
	colCity     = "City"
	colCountry  = "Country"
	colDate     = "Date"
	colAQI      = "AQI Value"
	colCategory = "AQI Category"
)

// pollutantColumn maps a pollutant name to its dataset column.
func pollutantColumn(name string) string {
	return name + " AQI Value"
}

// Store holds the parsed dataset. All reads are safe for concurrent use; the
// only mutable state is the sampling source, which has its own lock.
type Store struct {
	df        dataframe.DataFrame
	locations []domain.LocationRef
	logger    *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Load reads and validates the dataset CSV. A non-zero seed fixes random
// location sampling, which keeps fixture-driven tests reproducible; zero
// seeds from the wall clock.
func Load(path string, seed int64, logger *slog.Logger) (*Store, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			colAQI:                   series.Float,
			pollutantColumn("PM2.5"): series.Float,
			pollutantColumn("Ozone"): series.Float,
			pollutantColumn("NO2"):   series.Float,
			pollutantColumn("CO"):    series.Float,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse dataset csv: %w", df.Err)
	}

	names := columnSet(df)
	for _, col := range requiredColumns {
		if !names[col] {
			return nil, fmt.Errorf("dataset missing required column %q", col)
		}
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("dataset %s has no rows", path)
	}

	s := &Store{
		df:        df,
		locations: distinctLocations(df),
		logger:    logger,
		rng:       rand.New(rand.NewSource(seed)),
	}

	logger.Info("dataset loaded",
		"path", path,
		"rows", df.Nrow(),
		"locations", len(s.locations),
		"has_date_column", names[colDate],
	)
	return s, nil
}

// Rows reports the total number of dataset rows.
func (s *Store) Rows() int { return s.df.Nrow() }

// Locations returns a copy of all distinct (City, Country) pairs in
// first-seen order.
func (s *Store) Locations() []domain.LocationRef {
	out := make([]domain.LocationRef, len(s.locations))
	copy(out, s.locations)
	return out
}

// ResolveLocations implements the location lookup contract. An empty query
// returns all distinct pairs when they fit within limit, otherwise a uniform
// random sample of exactly limit pairs without replacement. A non-empty query
// returns every distinct pair whose City or Country contains the query
// case-insensitively, untruncated; no match yields a NoMatchError.
func (s *Store) ResolveLocations(query string, limit int) ([]domain.LocationRef, error) {
	query = strings.TrimSpace(query)

	if query == "" {
		all := s.Locations()
		if limit <= 0 || len(all) <= limit {
			return all, nil
		}
		return s.sample(all, limit), nil
	}

	q := strings.ToLower(query)
	contains := func(el series.Element) bool {
		return strings.Contains(strings.ToLower(el.String()), q)
	}
	// Two filters in one call are OR-combined: match city or country.
	matched := s.df.Filter(
		dataframe.F{Colname: colCity, Comparator: series.CompFunc, Comparando: contains},
		dataframe.F{Colname: colCountry, Comparator: series.CompFunc, Comparando: contains},
	)
	if matched.Err != nil {
		return nil, fmt.Errorf("filter locations: %w", matched.Err)
	}
	if matched.Nrow() == 0 {
		return nil, &domain.NoMatchError{Query: query}
	}
	return distinctLocations(matched), nil
}

// FetchRecords returns every dataset row matching one of the requested
// (City, Country) pairs, with all columns intact. An empty request fetches
// nothing; a request matching no rows yields a NoDataError naming the cities.
//
// Matching is on the full pair, not city alone: the dataset contains
// same-named cities in different countries and a city-only filter would
// silently merge them.
func (s *Store) FetchRecords(locations []domain.LocationRef) ([]domain.Observation, error) {
	if len(locations) == 0 {
		return []domain.Observation{}, nil
	}

	var cities []string
	citySeen := make(map[string]bool, len(locations))
	wanted := make(map[domain.LocationRef]bool, len(locations))
	for _, loc := range locations {
		wanted[loc] = true
		if !citySeen[loc.City] {
			citySeen[loc.City] = true
			cities = append(cities, loc.City)
		}
	}

	// Coarse city filter through the dataframe, then an exact pair check.
	matched := s.df.Filter(dataframe.F{Colname: colCity, Comparator: series.In, Comparando: cities})
	if matched.Err != nil {
		return nil, fmt.Errorf("filter records: %w", matched.Err)
	}

	var rows []domain.Observation
	for _, obs := range observations(matched) {
		if wanted[domain.LocationRef{City: obs.City, Country: obs.Country}] {
			rows = append(rows, obs)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.NoDataError{Cities: cities}
	}
	return rows, nil
}

// sample draws n locations uniformly without replacement.
func (s *Store) sample(all []domain.LocationRef, n int) []domain.LocationRef {
	s.mu.Lock()
	perm := s.rng.Perm(len(all))
	s.mu.Unlock()

	out := make([]domain.LocationRef, n)
	for i := 0; i < n; i++ {
		out[i] = all[perm[i]]
	}
	return out
}

// distinctLocations projects and deduplicates (City, Country) pairs,
// preserving first-seen row order.
func distinctLocations(df dataframe.DataFrame) []domain.LocationRef {
	cities := df.Col(colCity).Records()
	countries := df.Col(colCountry).Records()

	seen := make(map[domain.LocationRef]bool, len(cities))
	var out []domain.LocationRef
	for i := range cities {
		ref := domain.LocationRef{City: cities[i], Country: countries[i]}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}

// observations converts dataframe rows into typed records. Missing optional
// columns produce zero values; NaN pollutant cells become nil.
func observations(df dataframe.DataFrame) []domain.Observation {
	n := df.Nrow()
	if n == 0 {
		return nil
	}
	names := columnSet(df)

	cities := df.Col(colCity).Records()
	countries := df.Col(colCountry).Records()
	aqi := df.Col(colAQI).Float()

	var dates, categories []string
	if names[colDate] {
		dates = df.Col(colDate).Records()
	}
	if names[colCategory] {
		categories = df.Col(colCategory).Records()
	}

	subs := make(map[string][]float64, len(domain.Pollutants))
	for _, p := range domain.Pollutants {
		if col := pollutantColumn(p); names[col] {
			subs[p] = df.Col(col).Float()
		}
	}

	rows := make([]domain.Observation, n)
	for i := 0; i < n; i++ {
		obs := domain.Observation{
			City:     cities[i],
			Country:  countries[i],
			AQIValue: aqi[i],
		}
		if dates != nil {
			obs.Date = dates[i]
		}
		if categories != nil {
			obs.AQICategory = categories[i]
		}
		obs.PM25AQI = subScore(subs, "PM2.5", i)
		obs.OzoneAQI = subScore(subs, "Ozone", i)
		obs.NO2AQI = subScore(subs, "NO2", i)
		obs.COAQI = subScore(subs, "CO", i)
		rows[i] = obs
	}
	return rows
}

func subScore(subs map[string][]float64, pollutant string, i int) *float64 {
	vals, ok := subs[pollutant]
	if !ok {
		return nil
	}
	v := vals[i]
	if v != v { // NaN: the cell was empty
		return nil
	}
	return &v
}

func columnSet(df dataframe.DataFrame) map[string]bool {
	names := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		names[n] = true
	}
	return names
}
