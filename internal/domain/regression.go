package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TrendLine holds the ordinary least-squares fit of AQI on elapsed days.
// Only Slope, R, and PValue feed the classification; Intercept and N are kept
// for diagnostics and the result note.
type TrendLine struct {
	Slope     float64
	Intercept float64
	R         float64
	PValue    float64
	N         int
}

// minTrendPoints is the smallest sub-group that yields a trend: a two-sided
// t-test on the slope needs n-2 > 0 degrees of freedom, and two points always
// fit a line exactly.
const minTrendPoints = 3

// FitTrendLine runs ordinary least-squares regression of ys on xs and derives
// the two-sided p-value for a non-zero slope from Student's t with n-2
// degrees of freedom. Degenerate inputs get defined results instead of NaNs:
// zero variance in xs or ys means no measurable trend (p=1), and a perfect
// fit is maximally significant (p=0).
func FitTrendLine(xs, ys []float64) (TrendLine, error) {
	n := len(xs)
	if n != len(ys) {
		return TrendLine{}, &InsufficientDataError{Reason: "mismatched series lengths"}
	}
	if n < minTrendPoints {
		return TrendLine{}, &InsufficientDataError{Reason: "fewer than 3 usable points"}
	}

	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return TrendLine{PValue: 1, N: n}, nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r := stat.Correlation(xs, ys, nil)

	r2 := r * r
	var p float64
	switch {
	case r2 >= 1-1e-12:
		p = 0
	default:
		t := r * math.Sqrt(float64(n-2)/(1-r2))
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		p = 2 * dist.CDF(-math.Abs(t))
	}

	return TrendLine{
		Slope:     beta,
		Intercept: alpha,
		R:         r,
		PValue:    p,
		N:         n,
	}, nil
}
