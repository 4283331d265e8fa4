/*
Package engine implements the PTO request lifecycle, balance reconciliation,
and aggregation core.

PURPOSE:
  This package holds the business-rule layer of the PTO tracker: the request
  state machine, per-employee balance math, the calendar bucketer, and the
  report filter/aggregator. It owns no state - every computation is a pure
  function of the latest collection snapshot pushed by the storage
  collaborator.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: roster entry, including Bank/placeholder records
  - Request: a PTO request with its inclusive date span and status
  - Amount: a day quantity backed by decimal.Decimal
  - Snapshot: a complete materialization of both collections

DESIGN PRINCIPLES:
  1. Derivation over caching: balances and aggregates are recomputed from
     the full snapshot on every read, never patched incrementally
  2. Precision: decimal arithmetic for all balance figures
  3. Type safety: distinct id types for employees and requests

SEE ALSO:
  - request.go: state machine and mutation guards
  - balance.go: allocation vs. consumed/pending reconciliation
  - report.go: multi-predicate filtering and summary statistics
*/
package engine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Day quantity
// =============================================================================

// Amount is a quantity of PTO days. Balances may legitimately go negative
// (retroactive allocation changes, out-of-band overrides), so Amount is
// never clamped.
type Amount struct {
	Value decimal.Decimal
}

func Days(n int) Amount {
	return Amount{Value: decimal.NewFromInt(int64(n))}
}

func (a Amount) Add(b Amount) Amount { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) IsNegative() bool { return a.Value.IsNegative() }
func (a Amount) IsZero() bool { return a.Value.IsZero() }
func (a Amount) Equal(b Amount) bool { return a.Value.Equal(b.Value) }
func (a Amount) LessThan(b Amount) bool { return a.Value.LessThan(b.Value) }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) Int() int { return int(a.Value.IntPart()) }
func (a Amount) String() string { return a.Value.String() }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type RequestID string

// =============================================================================
// EMPLOYEE
// =============================================================================

// EmploymentType determines the annual PTO allocation.
type EmploymentType string

const (
	FullTime EmploymentType = "FT"
	PartTime EmploymentType = "PT"

	// Bank entries represent open shift pools, not people.
	Bank EmploymentType = "Bank"
)

// AvailabilityVaries is the sentinel for employees without a fixed
// weekday pattern.
const AvailabilityVaries = "Varies"

// placeholderPrefix marks roster slots for vacant positions ("OPEN POSITION",
// "OPEN SHIFTS (...)"). Placeholders are never PTO-eligible.
const placeholderPrefix = "OPEN"

// Employee is a roster entry. Ids are assigned by the storage collaborator.
type Employee struct {
	ID   EmployeeID
	Name string

	// External employee code, e.g. "EMP004". Optional.
	Code string

	Type EmploymentType

	// Weekday tokens ("Mon,Tue,...") or AvailabilityVaries.
	Availability string

	Department string
	Position   string
	HireDate   Date
	Email      string
}

// IsPlaceholder reports whether this entry is a vacant-position slot
// rather than a person.
func (e Employee) IsPlaceholder() bool {
	return strings.Contains(e.Name, placeholderPrefix)
}

// Eligible reports whether this employee may submit PTO requests.
// Bank pools and placeholder slots are excluded from every PTO-facing
// listing.
func (e Employee) Eligible() bool {
	return e.Type != Bank && !e.IsPlaceholder()
}

// AvailableOn reports whether the employee's weekly availability covers the
// given day. "Varies" and Bank entries count as always available.
func (e Employee) AvailableOn(day Date) bool {
	if e.Availability == "" || e.Availability == AvailabilityVaries || e.Type == Bank {
		return true
	}
	return strings.Contains(e.Availability, day.Weekday().String()[:3])
}

// EligibleEmployees filters a roster snapshot down to PTO-eligible entries,
// preserving order.
func EligibleEmployees(employees []Employee) []Employee {
	var out []Employee
	for _, e := range employees {
		if e.Eligible() {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// REQUEST
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Request is a PTO request. Start and End are inclusive calendar dates:
// a request for a single day has Start == End and counts as 1 day.
type Request struct {
	ID          RequestID
	EmployeeID  EmployeeID
	Reason      string
	Start       Date
	End         Date
	SubmittedAt time.Time
	Status      Status
}

// DaysRequested returns the inclusive day-count of the request's span,
// or 0 if either date is missing or the pair is malformed. Aggregations
// must tolerate bad documents without erroring.
func (r Request) DaysRequested() int {
	if !r.HasValidSpan() {
		return 0
	}
	return InclusiveDays(r.Start, r.End)
}

// HasValidSpan reports whether both dates are present and ordered.
func (r Request) HasValidSpan() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.Start.BeforeOrEqual(r.End)
}

// =============================================================================
// SNAPSHOT - Complete collection state at a point in time
// =============================================================================

// Snapshot is a full materialization of both collections as pushed by the
// storage collaborator. Snapshots are replaced wholesale, never merged.
type Snapshot struct {
	Employees []Employee
	Requests  []Request
}

// EmployeeByID looks up an employee in the snapshot.
func (s Snapshot) EmployeeByID(id EmployeeID) (Employee, bool) {
	for _, e := range s.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// RequestByID looks up a request in the snapshot.
func (s Snapshot) RequestByID(id RequestID) (Request, bool) {
	for _, r := range s.Requests {
		if r.ID == id {
			return r, true
		}
	}
	return Request{}, false
}

// RequestsFor returns the requests belonging to one employee, in snapshot
// order.
func (s Snapshot) RequestsFor(id EmployeeID) []Request {
	var out []Request
	for _, r := range s.Requests {
		if r.EmployeeID == id {
			out = append(out, r)
		}
	}
	return out
}
