package dateutil

import (
	"time"
)

// MonthIndex returns a linear month counter (year*12 + month-1) so that
// month spans can be compared and subtracted across year boundaries.
func MonthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// YearOfIndex returns the calendar year a linear month index falls in.
func YearOfIndex(idx int) int {
	return idx / 12
}

// FirstIndexOfYear returns the linear month index of January of the year.
func FirstIndexOfYear(year int) int {
	return year * 12
}

// LastIndexOfYear returns the linear month index of December of the year.
func LastIndexOfYear(year int) int {
	return year*12 + 11
}

// MonthsOfYearWithin counts how many months of the given calendar year fall
// inside the inclusive index span [firstIdx, lastIdx].
func MonthsOfYearWithin(year, firstIdx, lastIdx int) int {
	lo := FirstIndexOfYear(year)
	hi := LastIndexOfYear(year)
	if firstIdx > lo {
		lo = firstIdx
	}
	if lastIdx < hi {
		hi = lastIdx
	}
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

// BeginningOfYear returns January 1st of the year in UTC.
func BeginningOfYear(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfYear returns the last instant of December 31st of the year in UTC.
func EndOfYear(year int) time.Time {
	return time.Date(year, 12, 31, 23, 59, 59, 999999999, time.UTC)
}

// SameOrBefore reports whether a is on or before b, compared at day precision.
func SameOrBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad <= bd
}
