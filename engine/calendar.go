/*
calendar.go - Month grid bucketing for approved requests

PURPOSE:
  Maps approved requests onto a 6-week month grid for calendar display.
  The grid is always exactly 42 cells (6 rows x 7 days, Sunday-first):
  leading cells are filled backward from the 1st of the month, trailing
  cells forward from the last day, so the grid shape is stable regardless
  of month length or starting weekday.

PER-DAY BUCKETS:
  Each cell carries the FULL list of approved requests whose inclusive span
  contains that date. Truncating to "3 entries + N more" is a display
  concern; the UI applies whatever cap it wants on top of the full list.

SEE ALSO:
  - dates.go: Overlaps / SpanContains
*/
package engine

import "time"

// GridCells is the fixed size of the month grid: 6 full weeks.
const GridCells = 42

// DayCell is one cell of the month grid.
type DayCell struct {
	Date Date

	// InMonth is true for cells belonging to the target month, false for
	// the leading/trailing filler from adjacent months.
	InMonth bool

	// IsToday marks the current date.
	IsToday bool

	// Requests holds every approved request whose span contains this date,
	// in snapshot order.
	Requests []Request
}

// BuildMonthGrid buckets approved requests onto the month grid for the
// given year/month. today marks the IsToday cell (pass Today() in
// production; tests pin it).
func BuildMonthGrid(year int, month time.Month, today Date, requests []Request) []DayCell {
	monthStart := StartOfMonth(year, month)
	monthEnd := EndOfMonth(year, month)

	// Approved requests overlapping the month; a request spanning month
	// boundaries still lands on the days it covers inside the grid.
	var approved []Request
	for _, r := range requests {
		if r.Status != StatusApproved || !r.HasValidSpan() {
			continue
		}
		if Overlaps(r.Start, r.End, monthStart, monthEnd) {
			approved = append(approved, r)
		}
	}

	// Leading filler: walk backward from the 1st to the preceding Sunday.
	leading := int(monthStart.Weekday())
	first := monthStart.AddDays(-leading)

	cells := make([]DayCell, 0, GridCells)
	for day := first; len(cells) < GridCells; day = day.AddDays(1) {
		cell := DayCell{
			Date:    day,
			InMonth: day.Year() == year && day.Month() == month,
			IsToday: day.Equal(today),
		}
		for _, r := range approved {
			if SpanContains(r.Start, r.End, day) {
				cell.Requests = append(cell.Requests, r)
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

// ApprovedInMonth returns the approved requests whose spans overlap the
// given month, in snapshot order. Used for the month summary beneath the
// calendar.
func ApprovedInMonth(year int, month time.Month, requests []Request) []Request {
	monthStart := StartOfMonth(year, month)
	monthEnd := EndOfMonth(year, month)

	var out []Request
	for _, r := range requests {
		if r.Status != StatusApproved || !r.HasValidSpan() {
			continue
		}
		if Overlaps(r.Start, r.End, monthStart, monthEnd) {
			out = append(out, r)
		}
	}
	return out
}
