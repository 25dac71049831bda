// Command genmock generates a synthetic air-quality CSV fixture with known
// per-city trends, so the analysis pipeline can be exercised end to end
// without downloading the real dataset.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/air_quality_mock.csv -cities 8 -days 30 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jaswdr/faker"
)

var header = []string{
	"City", "Country", "Date", "AQI Value", "AQI Category",
	"PM2.5 AQI Value", "Ozone AQI Value", "NO2 AQI Value", "CO AQI Value",
}

// cityProfile fixes one synthetic city's AQI baseline and daily drift.
// Positive drift produces a worsening series, negative an improving one.
type cityProfile struct {
	city    string
	country string
	base    float64
	drift   float64
	noise   float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the mock CSV")
	cities := flag.Int("cities", 8, "number of synthetic cities")
	days := flag.Int("days", 30, "observations per city, one per day")
	seed := flag.Int64("seed", 42, "random seed for reproducible fixtures")
	badDateEvery := flag.Int("bad-date-every", 17, "write an unparsable date every Nth row (0 disables)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *cities < 1 || *days < 1 {
		return fmt.Errorf("-cities and -days must be positive")
	}

	rng := rand.New(rand.NewSource(*seed))
	fake := faker.NewWithSeed(rand.NewSource(*seed))

	profiles := make([]cityProfile, *cities)
	for i := range profiles {
		profiles[i] = cityProfile{
			city:    fake.Address().City(),
			country: fake.Address().Country(),
			base:    40 + rng.Float64()*120,
			drift:   (rng.Float64() - 0.5) * 3, // between -1.5 and +1.5 AQI per day
			noise:   2 + rng.Float64()*6,
		}
	}

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := buildRows(profiles, start, *days, *badDateEvery, rng)

	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}

	log.Printf("wrote %d rows for %d cities: %s", len(rows), *cities, *out)
	return nil
}

func buildRows(profiles []cityProfile, start time.Time, days, badDateEvery int, rng *rand.Rand) [][]string {
	var rows [][]string
	n := 0
	for _, p := range profiles {
		for d := 0; d < days; d++ {
			n++
			aqi := p.base + p.drift*float64(d) + (rng.Float64()-0.5)*2*p.noise
			if aqi < 5 {
				aqi = 5
			}

			date := start.AddDate(0, 0, d).Format("2006-01-02")
			if badDateEvery > 0 && n%badDateEvery == 0 {
				date = "not-a-date"
			}

			// Pollutant sub-scores follow the composite with their own noise;
			// PM2.5 dominates, which matches the real dataset's skew.
			pm25 := aqi * (0.8 + rng.Float64()*0.3)
			ozone := aqi * (0.4 + rng.Float64()*0.3)
			no2 := aqi * (0.1 + rng.Float64()*0.2)
			co := aqi * (0.05 + rng.Float64()*0.1)

			rows = append(rows, []string{
				p.city,
				p.country,
				date,
				strconv.FormatFloat(round1(aqi), 'f', -1, 64),
				categoryFor(aqi),
				strconv.FormatFloat(round1(pm25), 'f', -1, 64),
				strconv.FormatFloat(round1(ozone), 'f', -1, 64),
				strconv.FormatFloat(round1(no2), 'f', -1, 64),
				strconv.FormatFloat(round1(co), 'f', -1, 64),
			})
		}
	}
	return rows
}

// categoryFor maps an AQI value onto the standard EPA category bands.
func categoryFor(aqi float64) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
