/*
dates.go - Calendar-date arithmetic used by every other component

PURPOSE:
  All date math in the engine goes through this file. Requests span whole
  calendar days (both ends inclusive), so every duration and containment
  check must count the same way everywhere. A 1-day request is start == end.

KEY CONCEPTS:
  - Date: a calendar date (UTC, time-of-day zeroed before any comparison)
  - InclusiveDays: whole-day difference + 1, the canonical duration formula
  - Overlaps: closed-interval intersection test

CONTRACT:
  InclusiveDays(start, end) is defined only for start <= end. The state
  machine validates date ordering before anything else touches a span, so
  callers inside the engine never see a reversed pair.

SEE ALSO:
  - request.go: validates start <= end upstream
  - calendar.go: per-day containment via Overlaps
*/
package engine

import "time"

// =============================================================================
// DATE - Calendar date, day granularity
// =============================================================================

// Date is a calendar date. The zero value is "no date".
// Time-of-day is discarded on construction so comparisons are stable no
// matter what precision the storage collaborator hands back.
type Date struct {
	Time time.Time
}

// NewDate constructs a Date from year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
// Storage timestamps carry at least second resolution; day arithmetic
// must never see that precision.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current wall-clock calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// Comparison
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// StartOfMonth returns the first day of the given month.
func StartOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, 1)
}

// EndOfMonth returns the last day of the given month.
func EndOfMonth(year int, month time.Month) Date {
	return NewDate(year, month+1, 1).AddDays(-1)
}

// =============================================================================
// SPAN ARITHMETIC
// =============================================================================

// InclusiveDays returns the number of calendar days in [start, end],
// counting both ends: InclusiveDays(d, d) == 1.
//
// Defined only for start <= end; reversed pairs are a caller contract
// violation and are rejected upstream by request validation.
func InclusiveDays(start, end Date) int {
	return int(end.Time.Sub(start.Time).Hours()/24) + 1
}

// Overlaps reports whether the closed intervals [aStart, aEnd] and
// [bStart, bEnd] share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.BeforeOrEqual(bEnd) && bStart.BeforeOrEqual(aEnd)
}

// SpanContains reports whether day falls within [start, end].
func SpanContains(start, end, day Date) bool {
	return Overlaps(start, end, day, day)
}
