// Package domain models the Statistics Canada quarterly population table.
//
// # Data Source
//
// The table is the "Estimated population by province and territory" series
// published by Statistics Canada (table 17-10-0009-01), exported to a flat CSV
// file. The dashboard loads it once at startup and never mutates it.
//
// # CSV Conventions
//
// Header row:
//
//	Quarter,Canada,Newfoundland and Labrador,Prince Edward Island,...,Nunavut
//
// The first column is always "Quarter". Every other column is a region and
// holds a non-negative integer head count, e.g. 27585000.
//
// Quarter labels:
//
//	"Q{n} {year}"  →  e.g. "Q2 1991"
//	n is 1-4, year is four digits. Rows appear in strictly increasing
//	chronological order and each label appears exactly once.
//
// # Ordinals
//
// A label maps to a float ordinal for chronological comparison:
//
//	Q1 → year + 0.00
//	Q2 → year + 0.25
//	Q3 → year + 0.50
//	Q4 → year + 0.75
//
// See [QuarterOrdinal].
//
// # Percentage Change
//
// Change over a range is computed against the FINAL value of the range:
//
//	round((final - initial) / final * 100, 2)
//
// This matches the figures the dashboard has always shown and differs from the
// usual convention of dividing by the initial value. A final value of zero
// yields a non-finite result (±Inf or NaN). See [PercentChange].
package domain
