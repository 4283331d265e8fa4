/*
report.go - Multi-predicate filtering, summary statistics, export shaping

PURPOSE:
  Powers the admin reporting view: filter the request set with any
  combination of optional predicates, summarize the matching subset, and
  flatten it into rows ready for CSV export.

PREDICATE COMPOSITION:
  Each filter clause is optional; an absent clause imposes no constraint.
  Present clauses compose with logical AND. With no clauses set, the filter
  is the identity and input order is preserved.

MALFORMED DOCUMENTS:
  A request missing a well-formed date pair contributes 0 days to every day
  sum. It still matches non-date clauses and appears in counts and rows -
  it just never inflates a day total or aborts a report.

FIELD ESCAPING:
  TabularRows applies standard CSV field escaping, but only to string
  fields that actually contain the separator: wrap in quotes, double any
  internal quote. Everything else passes through untouched so exported
  numbers stay bare.
*/
package engine

import (
	"fmt"
	"strings"
)

// =============================================================================
// FILTER - Conjunction of optional clauses
// =============================================================================

// Filter is a conjunction of optional predicates over the request set.
// Zero values (empty strings, zero dates) mean "no constraint".
type Filter struct {
	// Department matches via the requesting employee's department field.
	Department string

	// EmployeeID matches one specific employee.
	EmployeeID EmployeeID

	// Status matches one request status.
	Status Status

	// StartFrom keeps requests whose start date >= StartFrom.
	StartFrom Date

	// EndTo keeps requests whose end date <= EndTo.
	EndTo Date
}

// FilterRequests returns the subset of requests matching every set clause,
// in original relative order.
func FilterRequests(requests []Request, employees []Employee, f Filter) []Request {
	byID := make(map[EmployeeID]Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	var out []Request
	for _, r := range requests {
		if f.Department != "" {
			if emp, ok := byID[r.EmployeeID]; !ok || departmentOf(emp) != f.Department {
				continue
			}
		}
		if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if !f.StartFrom.IsZero() && (r.Start.IsZero() || r.Start.Before(f.StartFrom)) {
			continue
		}
		if !f.EndTo.IsZero() && (r.End.IsZero() || r.End.After(f.EndTo)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// departmentOf falls back to Operations for roster entries predating the
// department field.
func departmentOf(e Employee) string {
	if e.Department == "" {
		return "Operations"
	}
	return e.Department
}

// Departments returns the distinct departments in roster order.
func Departments(employees []Employee) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range employees {
		d := departmentOf(e)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// =============================================================================
// SUMMARY STATISTICS
// =============================================================================

// Summary holds the aggregate statistics for a filtered subset.
type Summary struct {
	Total         int
	ApprovedCount int
	PendingCount  int
	DeniedCount   int

	// Day sums use inclusive day-counts; malformed spans contribute 0.
	TotalDaysRequested int
	ApprovedDays       int
}

// Summarize computes summary statistics over a request subset.
func Summarize(subset []Request) Summary {
	var s Summary
	s.Total = len(subset)
	for _, r := range subset {
		days := r.DaysRequested()
		s.TotalDaysRequested += days
		switch r.Status {
		case StatusApproved:
			s.ApprovedCount++
			s.ApprovedDays += days
		case StatusPending:
			s.PendingCount++
		case StatusDenied:
			s.DeniedCount++
		}
	}
	return s
}

// =============================================================================
// EXPORT SHAPING
// =============================================================================

// ReportHeader is the column order for tabular export.
var ReportHeader = []string{
	"Employee Name",
	"Department",
	"Request Date",
	"Start Date",
	"End Date",
	"Days Requested",
	"Reason",
	"Status",
}

// TabularRows flattens a request subset into export rows, one per request,
// in subset order. String fields containing the separator are escaped;
// missing dates render as empty fields.
func TabularRows(subset []Request, employees []Employee) [][]string {
	byID := make(map[EmployeeID]Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	rows := make([][]string, 0, len(subset))
	for _, r := range subset {
		name, dept := "Unknown", "Unknown"
		if emp, ok := byID[r.EmployeeID]; ok {
			name = emp.Name
			dept = departmentOf(emp)
		}

		submitted := ""
		if !r.SubmittedAt.IsZero() {
			submitted = DateOf(r.SubmittedAt).String()
		}
		start, end := "", ""
		if !r.Start.IsZero() {
			start = r.Start.String()
		}
		if !r.End.IsZero() {
			end = r.End.String()
		}

		rows = append(rows, []string{
			escapeField(name),
			escapeField(dept),
			submitted,
			start,
			end,
			fmt.Sprintf("%d", r.DaysRequested()),
			escapeField(r.Reason),
			string(r.Status),
		})
	}
	return rows
}

// escapeField applies standard CSV quoting, but only when the field
// contains the separator. Internal quotes are doubled.
func escapeField(field string) string {
	if !strings.Contains(field, ",") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
