// Package chart renders AQI time-series line charts. It is a presentation
// layer over the analysis pipeline: it consumes raw observation rows and
// persists a PNG, and nothing in the analytical core depends on it.
package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/air-quality-trends/internal/domain"
)

// Renderer writes one line per city, AQI value against observation date.
type Renderer struct {
	outputDir string
	clock     clockwork.Clock
	logger    *slog.Logger
}

// NewRenderer creates a Renderer that persists charts under outputDir. The
// clock stamps generated filenames; inject a fake for deterministic tests.
func NewRenderer(outputDir string, clock clockwork.Clock, logger *slog.Logger) *Renderer {
	return &Renderer{outputDir: outputDir, clock: clock, logger: logger}
}

type datedPoint struct {
	date time.Time
	aqi  float64
}

// Render draws the rows' AQI time series grouped by city and saves a PNG.
// At least two rows with parseable dates are required. The returned path is
// the persisted chart file. An empty name derives one from the plotted
// cities and the current time.
func (r *Renderer) Render(rows []domain.Observation, name string) (string, error) {
	if len(rows) == 0 {
		return "", &domain.InsufficientDataError{Reason: "no records to plot"}
	}

	var cityOrder []string
	byCity := make(map[string][]datedPoint)
	dated := 0
	for _, row := range rows {
		date, ok := domain.ParseObservationDate(row.Date)
		if !ok {
			continue
		}
		dated++
		if _, seen := byCity[row.City]; !seen {
			cityOrder = append(cityOrder, row.City)
		}
		byCity[row.City] = append(byCity[row.City], datedPoint{date: date, aqi: row.AQIValue})
	}
	if dated < 2 {
		return "", &domain.InsufficientDataError{Reason: "plotting needs at least 2 dated records"}
	}

	p := plot.New()
	p.Title.Text = "Air Quality Index over time"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "AQI Value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	var lineArgs []interface{}
	for _, city := range cityOrder {
		points := byCity[city]
		sort.Slice(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })

		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i].X = float64(pt.date.Unix())
			xys[i].Y = pt.aqi
		}
		lineArgs = append(lineArgs, city, xys)
	}
	if err := plotutil.AddLinePoints(p, lineArgs...); err != nil {
		return "", fmt.Errorf("add chart lines: %w", err)
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create plot directory: %w", err)
	}

	if name == "" {
		name = fmt.Sprintf("aqi_%s_%s", slug(cityOrder), r.clock.Now().UTC().Format("20060102T150405"))
	}
	path := filepath.Join(r.outputDir, slugFile(name)+".png")

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save chart: %w", err)
	}

	r.logger.Info("chart rendered", "path", path, "cities", len(cityOrder), "points", dated)
	return path, nil
}

// slug joins up to three city names into a filename fragment.
func slug(cities []string) string {
	if len(cities) > 3 {
		cities = append(cities[:3:3], fmt.Sprintf("and-%d-more", len(cities)-3))
	}
	return slugFile(strings.Join(cities, "-"))
}

// slugFile lowercases and replaces anything unsafe for a filename.
func slugFile(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
