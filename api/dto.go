/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the domain
  model from the external contract. Dates cross the wire as YYYY-MM-DD
  strings; the handlers convert to engine.Date at the boundary.

VALIDATION:
  Inbound types carry validator/v10 struct tags for shape checks (required
  fields, date format). Business validation - eligibility, date ordering,
  balance - stays in the engine, which returns typed errors the handlers
  map to HTTP statuses.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"time"

	"github.com/warp/pto-center/engine"
)

// =============================================================================
// INBOUND
// =============================================================================

// SubmitRequestDTO is the body for submitting a PTO request.
type SubmitRequestDTO struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// EditRequestDTO is the body for editing a pending request. Absent fields
// keep their current values.
type EditRequestDTO struct {
	Reason    *string `json:"reason,omitempty" validate:"omitempty,min=1"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// =============================================================================
// OUTBOUND
// =============================================================================

// EmployeeDTO represents a roster entry.
type EmployeeDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	Type         string `json:"type"`
	Availability string `json:"availability,omitempty"`
	Department   string `json:"department,omitempty"`
	Position     string `json:"position,omitempty"`
	HireDate     string `json:"hire_date,omitempty"`
}

// RequestDTO represents a PTO request.
type RequestDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Reason       string `json:"reason"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	SubmittedAt  string `json:"submitted_at,omitempty"`
	Status       string `json:"status"`
	Days         int    `json:"days"`
}

// BalanceDTO is the reconciled balance for one employee. Available may be
// negative; clients must render it as-is.
type BalanceDTO struct {
	EmployeeID string `json:"employee_id"`
	Allocation int    `json:"allocation"`
	Used       int    `json:"used"`
	Pending    int    `json:"pending"`
	Available  int    `json:"available"`
}

// DayCellDTO is one cell of the 42-cell month grid. The full per-day
// request list ships so the client can apply any display cap.
type DayCellDTO struct {
	Date     string       `json:"date"`
	InMonth  bool         `json:"in_month"`
	IsToday  bool         `json:"is_today"`
	Requests []RequestDTO `json:"requests,omitempty"`
}

// CalendarDTO is the month grid plus its approved-requests summary list.
type CalendarDTO struct {
	Year     int          `json:"year"`
	Month    int          `json:"month"`
	Cells    []DayCellDTO `json:"cells"`
	Approved []RequestDTO `json:"approved"`
}

// SummaryDTO is the aggregate over a filtered subset.
type SummaryDTO struct {
	Total              int `json:"total"`
	ApprovedCount      int `json:"approved_count"`
	PendingCount       int `json:"pending_count"`
	DeniedCount        int `json:"denied_count"`
	TotalDaysRequested int `json:"total_days_requested"`
	ApprovedDays       int `json:"approved_days"`
}

// HistoryDTO is the per-employee history view with a year-to-date summary.
type HistoryDTO struct {
	Employee         EmployeeDTO  `json:"employee"`
	Requests         []RequestDTO `json:"requests"`
	ThisYearRequests int          `json:"this_year_requests"`
	DaysUsed         int          `json:"days_used"`
	Approved         int          `json:"approved"`
	Pending          int          `json:"pending"`
	Denied           int          `json:"denied"`
}

// PrintableFormDTO flattens one request for the printable PTO form.
type PrintableFormDTO struct {
	EmployeeName  string `json:"employee_name"`
	EmployeeCode  string `json:"employee_code"`
	Department    string `json:"department"`
	Position      string `json:"position"`
	Reason        string `json:"reason"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DateSubmitted string `json:"date_submitted"`
	TotalDays     int    `json:"total_days"`
}

// ErrorResponse is the error envelope for all failures.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(e engine.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:           string(e.ID),
		Name:         e.Name,
		Code:         e.Code,
		Type:         string(e.Type),
		Availability: e.Availability,
		Department:   e.Department,
		Position:     e.Position,
	}
	if !e.HireDate.IsZero() {
		dto.HireDate = e.HireDate.String()
	}
	return dto
}

func toRequestDTO(r engine.Request, snap engine.Snapshot) RequestDTO {
	dto := RequestDTO{
		ID:         string(r.ID),
		EmployeeID: string(r.EmployeeID),
		Reason:     r.Reason,
		Status:     string(r.Status),
		Days:       r.DaysRequested(),
	}
	if emp, ok := snap.EmployeeByID(r.EmployeeID); ok {
		dto.EmployeeName = emp.Name
	}
	if !r.Start.IsZero() {
		dto.StartDate = r.Start.String()
	}
	if !r.End.IsZero() {
		dto.EndDate = r.End.String()
	}
	if !r.SubmittedAt.IsZero() {
		dto.SubmittedAt = r.SubmittedAt.Format(time.RFC3339)
	}
	return dto
}

func toRequestDTOs(requests []engine.Request, snap engine.Snapshot) []RequestDTO {
	out := make([]RequestDTO, len(requests))
	for i, r := range requests {
		out[i] = toRequestDTO(r, snap)
	}
	return out
}
