// Package domain implements the air-quality analysis core: record shapes,
// per-city summary statistics, and the trend-classification pipeline.
//
// # Data Source
//
// Observations come from a world air-quality-index CSV keyed by city and
// country. Each row carries a composite "AQI Value", its categorical
// "AQI Category" label, an irregularly formatted "Date", and up to four
// per-pollutant AQI sub-scores (PM2.5, Ozone, NO2, CO). The dataset is
// materialized once at startup and treated as immutable for the process
// lifetime; see the dataset package.
//
// # Dataset Conventions
//
// Date format:
//
//	Irregular. ISO dates ("2024-03-17") dominate, but slash and
//	month-name forms appear. Parsing is best-effort: a cell no layout
//	matches marks the row's date as missing rather than failing the
//	analysis, and such rows are excluded from trend computation only.
//	Time-of-day components, when present, are discarded; trends work at
//	whole-day granularity.
//
// Pollutant sub-scores:
//
//	Nullable. An absent column or empty cell means the pollutant was not
//	measured for that row; it then simply cannot become the group's
//	primary pollutant. Enumeration order is fixed (PM2.5, Ozone, NO2, CO)
//	and breaks ties in primary-pollutant selection.
//
// # Trend Classification
//
// A city group with at least three rows carrying both a parseable date and
// an AQI value gets a trend label. The dated sub-group is sorted by date,
// x becomes whole days since the earliest observation, and an ordinary
// least-squares regression of AQI on x yields a slope and a two-sided
// p-value from Student's t with n-2 degrees of freedom:
//
//	p <  0.05, slope < 0  →  "Improving"
//	p <  0.05, slope >= 0 →  "Worsening"
//	p >= 0.05             →  "Stable"
//
// Groups below the three-point minimum report only snapshot statistics with
// a fixed explanatory note.
//
// # Error Values
//
// Failures travel as typed error values (NoMatchError, NoDataError,
// InsufficientDataError, EmptyAnalysisError) that downstream stages pass
// through unchanged instead of recomputing or masking them.
package domain
