/*
handlers.go - HTTP API handlers for the PTO center

PURPOSE:
  Exposes the PTO engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates all business rules to the engine.

ENDPOINTS:
  Employees:
    GET    /api/employees                 List eligible employees (?all=true for roster)
    GET    /api/employees/{id}/balance    Reconciled PTO balance
    GET    /api/employees/{id}/history    Request history + year-to-date summary

  Requests:
    POST   /api/requests                  Submit a PTO request
    GET    /api/requests                  Filtered request list
    GET    /api/requests/summary          Aggregate over the filtered subset
    PUT    /api/requests/{id}             Edit a pending request
    DELETE /api/requests/{id}             Cancel a pending request
    POST   /api/requests/{id}/approve     Approve a pending request
    POST   /api/requests/{id}/deny       Deny a pending request
    GET    /api/requests/{id}/form        Printable-form payload

  Calendar and reports:
    GET    /api/calendar/{year}/{month}   42-cell month grid of approved PTO
    GET    /api/reports/export            CSV download of the filtered subset

FILTERS:
  List, summary, and export accept department, employee_id, status,
  start_from, and end_to query parameters. Absent parameters are
  unconstrained; present parameters AND together.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, insufficient balance, invalid input
  - 404: Employee or request not found
  - 409: State conflict (acting on a resolved request)
  - 500: Storage and other internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/warp/pto-center/engine"
	"github.com/warp/pto-center/export"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *engine.Service
	View     *engine.View
	Policy   engine.AllocationPolicy
	Log      *zap.Logger
	validate *validator.Validate

	// Now stamps export filenames and picks the calendar's "today" cell.
	// Defaults to time.Now.
	Now func() time.Time
}

// NewHandler creates a handler wired to the given service.
func NewHandler(service *engine.Service, view *engine.View, policy engine.AllocationPolicy, log *zap.Logger) *Handler {
	return &Handler{
		Service:  service,
		View:     view,
		Policy:   policy,
		Log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the employees who can request PTO. Bank entries and
// open-position placeholders are excluded unless ?all=true.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	snap := h.View.Snapshot()

	employees := snap.Employees
	if r.URL.Query().Get("all") != "true" {
		employees = engine.EligibleEmployees(employees)
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBalance returns the reconciled balance for one employee.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	snap := h.View.Snapshot()

	id := engine.EmployeeID(chi.URLParam(r, "id"))
	employee, ok := snap.EmployeeByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	b := engine.ComputeBalance(employee, snap.Requests, h.Policy)
	writeJSON(w, http.StatusOK, BalanceDTO{
		EmployeeID: string(b.EmployeeID),
		Allocation: b.Allocation.Int(),
		Used:       b.Used.Int(),
		Pending:    b.Pending.Int(),
		Available:  b.Available.Int(),
	})
}

// GetHistory returns an employee's full request history with a summary of
// the current calendar year.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	snap := h.View.Snapshot()

	id := engine.EmployeeID(chi.URLParam(r, "id"))
	employee, ok := snap.EmployeeByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	requests := snap.RequestsFor(id)
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].SubmittedAt.After(requests[j].SubmittedAt)
	})
	year := h.now().Year()

	history := HistoryDTO{
		Employee: toEmployeeDTO(employee),
		Requests: toRequestDTOs(requests, snap),
	}
	for _, req := range requests {
		switch req.Status {
		case engine.StatusApproved:
			history.Approved++
			history.DaysUsed += req.DaysRequested()
		case engine.StatusPending:
			history.Pending++
		case engine.StatusDenied:
			history.Denied++
		}
		if !req.Start.IsZero() && req.Start.Year() == year {
			history.ThisYearRequests++
		}
	}
	writeJSON(w, http.StatusOK, history)
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// SubmitRequest submits a new PTO request.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var dto SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Shape already validated; parse failures would have been caught above.
	start, _ := engine.ParseDate(dto.StartDate)
	end, _ := engine.ParseDate(dto.EndDate)

	req, err := h.Service.Submit(r.Context(), engine.SubmitInput{
		EmployeeID: engine.EmployeeID(dto.EmployeeID),
		Reason:     dto.Reason,
		Start:      start,
		End:        end,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(req, h.View.Snapshot()))
}

// EditRequest edits a pending request. Only provided fields change.
func (h *Handler) EditRequest(w http.ResponseWriter, r *http.Request) {
	var dto EditRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := engine.EditInput{Reason: dto.Reason}
	if dto.StartDate != nil {
		start, _ := engine.ParseDate(*dto.StartDate)
		in.Start = &start
	}
	if dto.EndDate != nil {
		end, _ := engine.ParseDate(*dto.EndDate)
		in.End = &end
	}

	id := engine.RequestID(chi.URLParam(r, "id"))
	req, err := h.Service.Edit(r.Context(), id, in)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(req, h.View.Snapshot()))
}

// CancelRequest cancels (deletes) a pending request.
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := engine.RequestID(chi.URLParam(r, "id"))
	if err := h.Service.Cancel(r.Context(), id); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApproveRequest moves a pending request to approved.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.Service.Approve)
}

// DenyRequest moves a pending request to denied.
func (h *Handler) DenyRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.Service.Deny)
}

func (h *Handler) resolveRequest(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id engine.RequestID) (engine.Request, error)) {
	id := engine.RequestID(chi.URLParam(r, "id"))
	req, err := fn(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(req, h.View.Snapshot()))
}

// ListRequests returns requests matching the query filters, in storage
// order.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	snap := h.View.Snapshot()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	subset := engine.FilterRequests(snap.Requests, snap.Employees, filter)
	writeJSON(w, http.StatusOK, toRequestDTOs(subset, snap))
}

// GetSummary returns counts and day sums over the filtered subset.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	snap := h.View.Snapshot()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	s := engine.Summarize(engine.FilterRequests(snap.Requests, snap.Employees, filter))
	writeJSON(w, http.StatusOK, SummaryDTO{
		Total:              s.Total,
		ApprovedCount:      s.ApprovedCount,
		PendingCount:       s.PendingCount,
		DeniedCount:        s.DeniedCount,
		TotalDaysRequested: s.TotalDaysRequested,
		ApprovedDays:       s.ApprovedDays,
	})
}

// GetPrintableForm returns a request flattened for the printable PTO form.
func (h *Handler) GetPrintableForm(w http.ResponseWriter, r *http.Request) {
	snap := h.View.Snapshot()

	id := engine.RequestID(chi.URLParam(r, "id"))
	req, ok := snap.RequestByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Request not found", nil)
		return
	}

	form := PrintableFormDTO{
		Reason:    req.Reason,
		TotalDays: req.DaysRequested(),
	}
	if emp, found := snap.EmployeeByID(req.EmployeeID); found {
		form.EmployeeName = emp.Name
		form.EmployeeCode = emp.Code
		form.Department = emp.Department
		form.Position = emp.Position
	}
	if !req.Start.IsZero() {
		form.StartDate = req.Start.String()
	}
	if !req.End.IsZero() {
		form.EndDate = req.End.String()
	}
	if !req.SubmittedAt.IsZero() {
		form.DateSubmitted = engine.DateOf(req.SubmittedAt).String()
	}
	writeJSON(w, http.StatusOK, form)
}

// =============================================================================
// CALENDAR
// =============================================================================

// GetCalendar returns the 42-cell grid of approved PTO for one month.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	monthNum, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month (use 1-12)", err)
		return
	}
	month := time.Month(monthNum)

	snap := h.View.Snapshot()
	today := engine.DateOf(h.now())

	cells := engine.BuildMonthGrid(year, month, today, snap.Requests)
	dto := CalendarDTO{
		Year:     year,
		Month:    monthNum,
		Cells:    make([]DayCellDTO, len(cells)),
		Approved: toRequestDTOs(engine.ApprovedInMonth(year, month, snap.Requests), snap),
	}
	for i, cell := range cells {
		dto.Cells[i] = DayCellDTO{
			Date:     cell.Date.String(),
			InMonth:  cell.InMonth,
			IsToday:  cell.IsToday,
			Requests: toRequestDTOs(cell.Requests, snap),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportReport streams the filtered subset as a CSV attachment named
// pto_report_YYYY-MM-DD.csv.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	snap := h.View.Snapshot()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	subset := engine.FilterRequests(snap.Requests, snap.Employees, filter)
	rows := engine.TabularRows(subset, snap.Employees)

	w.Header().Set("Content-Type", export.MediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(h.now())+`"`)
	if err := export.WriteCSV(w, rows); err != nil {
		h.Log.Warn("csv export write failed", zap.Error(err))
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// parseFilter builds an engine.Filter from query parameters. Absent
// parameters leave their clause unconstrained.
func parseFilter(r *http.Request) (engine.Filter, error) {
	q := r.URL.Query()
	f := engine.Filter{
		Department: q.Get("department"),
		EmployeeID: engine.EmployeeID(q.Get("employee_id")),
		Status:     engine.Status(q.Get("status")),
	}
	if raw := q.Get("start_from"); raw != "" {
		d, err := engine.ParseDate(raw)
		if err != nil {
			return engine.Filter{}, err
		}
		f.StartFrom = d
	}
	if raw := q.Get("end_to"); raw != "" {
		d, err := engine.ParseDate(raw)
		if err != nil {
			return engine.Filter{}, err
		}
		f.EndTo = d
	}
	return f, nil
}

// writeEngineError maps the engine's typed errors onto HTTP statuses.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var validation *engine.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Validation failed",
			Fields: validation.Fields,
		})
		return
	}

	var balance *engine.BalanceError
	if errors.As(err, &balance) {
		writeError(w, http.StatusBadRequest, "Insufficient PTO balance", balance)
		return
	}

	var transition *engine.StateTransitionError
	if errors.As(err, &transition) {
		writeError(w, http.StatusConflict, "Request already resolved", transition)
		return
	}

	if engine.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Not found", err)
		return
	}

	h.Log.Error("request handling failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal error", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
