package domain

import (
	"fmt"
	"strings"
)

// The analysis pipeline reports failures as typed error values rather than
// panics. A stage that receives an upstream error returns the identical value
// unchanged, so callers can match on the concrete type with errors.As at any
// point downstream.

// NoMatchError indicates that a location query matched no city or country.
type NoMatchError struct {
	Query string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no cities found matching %q", e.Query)
}

// NoDataError indicates that no dataset rows exist for the requested cities.
type NoDataError struct {
	Cities []string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no air quality data for cities: %s", strings.Join(e.Cities, ", "))
}

// InsufficientDataError indicates that a stage received empty input or too
// few rows to compute its result.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	if e.Reason == "" {
		return "insufficient data"
	}
	return "insufficient data: " + e.Reason
}

// EmptyAnalysisError indicates that grouping produced no per-city results
// despite non-empty input. Upstream validation should make this unreachable;
// seeing it means an invariant was violated.
type EmptyAnalysisError struct{}

func (e *EmptyAnalysisError) Error() string {
	return "analysis produced no city groups"
}
