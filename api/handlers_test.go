/*
handlers_test.go - HTTP-level tests for the API

Tests route the full stack: chi router -> handlers -> engine service ->
in-memory stores, asserting on status codes and JSON bodies.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/pto-center/engine"
	"github.com/warp/pto-center/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (http.Handler, *engine.Service) {
	t.Helper()

	employees := memory.NewEmployeeStore()
	requests := memory.NewRequestStore()

	err := employees.CreateBatch(context.Background(), []engine.Employee{
		{ID: "ft-1", Name: "Whitfield, Dana", Code: "EMP002", Type: engine.FullTime, Department: "Operations", Position: "Technician"},
		{ID: "pt-1", Name: "Sandoval, Marc", Code: "EMP001", Type: engine.PartTime, Department: "Maintenance"},
		{ID: "bank-1", Name: "OPEN SHIFTS (Weekend)", Type: engine.Bank},
	})
	require.NoError(t, err)

	view := engine.NewView()
	cancel := view.Bind(employees, requests)
	t.Cleanup(cancel)

	policy := engine.DefaultAllocations()
	svc := engine.NewService(requests, view, policy)
	svc.Now = func() time.Time {
		return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	}

	h := NewHandler(svc, view, policy, zap.NewNop())
	h.Now = svc.Now
	return NewRouter(h), svc
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func submitViaAPI(t *testing.T, handler http.Handler, employeeID, start, end string) RequestDTO {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/requests", SubmitRequestDTO{
		EmployeeID: employeeID,
		Reason:     "Vacation",
		StartDate:  start,
		EndDate:    end,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[RequestDTO](t, rec)
}

// =============================================================================
// EMPLOYEE ENDPOINT TESTS
// =============================================================================

func TestListEmployees_EligibleOnlyByDefault(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dtos := decode[[]EmployeeDTO](t, rec)
	require.Len(t, dtos, 2)
	assert.Equal(t, "Whitfield, Dana", dtos[0].Name)
	assert.Equal(t, "Sandoval, Marc", dtos[1].Name)
}

func TestListEmployees_AllIncludesBankEntries(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/employees?all=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]EmployeeDTO](t, rec), 3)
}

func TestGetBalance_ReflectsLifecycle(t *testing.T) {
	handler, _ := newTestServer(t)

	req := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")
	rec := doJSON(t, handler, http.MethodPost, "/api/requests/"+req.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/employees/ft-1/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	b := decode[BalanceDTO](t, rec)
	assert.Equal(t, 20, b.Allocation)
	assert.Equal(t, 5, b.Used)
	assert.Equal(t, 0, b.Pending)
	assert.Equal(t, 15, b.Available)
}

func TestGetBalance_UnknownEmployee404(t *testing.T) {
	handler, _ := newTestServer(t)
	rec := doJSON(t, handler, http.MethodGet, "/api/employees/ghost/balance", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHistory_SummarizesYear(t *testing.T) {
	handler, _ := newTestServer(t)

	a := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")
	submitViaAPI(t, handler, "ft-1", "2024-04-01", "2024-04-02")
	rec := doJSON(t, handler, http.MethodPost, "/api/requests/"+a.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/employees/ft-1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	h := decode[HistoryDTO](t, rec)
	assert.Equal(t, "Whitfield, Dana", h.Employee.Name)
	assert.Len(t, h.Requests, 2)
	assert.Equal(t, 1, h.Approved)
	assert.Equal(t, 1, h.Pending)
	assert.Equal(t, 5, h.DaysUsed)
	assert.Equal(t, 2, h.ThisYearRequests)
}

// =============================================================================
// REQUEST LIFECYCLE ENDPOINT TESTS
// =============================================================================

func TestSubmitRequest_Created(t *testing.T) {
	handler, _ := newTestServer(t)

	dto := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, 5, dto.Days)
	assert.Equal(t, "Whitfield, Dana", dto.EmployeeName)
}

func TestSubmitRequest_MalformedJSON400(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRequest_MissingFields400(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/requests", SubmitRequestDTO{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRequest_EngineValidationSurfacesFields(t *testing.T) {
	// Shape-valid body, but the bank entry is not eligible.
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/requests", SubmitRequestDTO{
		EmployeeID: "bank-1",
		Reason:     "Vacation",
		StartDate:  "2024-03-04",
		EndDate:    "2024-03-08",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, "This entry is not eligible for PTO", resp.Fields["employee"])
}

func TestSubmitRequest_OverBalance400(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/requests", SubmitRequestDTO{
		EmployeeID: "ft-1",
		Reason:     "Vacation",
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-21", // 21 days vs 20 allocated
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Insufficient PTO balance", resp.Error)
}

func TestEditRequest_PartialUpdate(t *testing.T) {
	handler, _ := newTestServer(t)

	created := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")

	reason := "Family event"
	rec := doJSON(t, handler, http.MethodPut, "/api/requests/"+created.ID, EditRequestDTO{Reason: &reason})
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[RequestDTO](t, rec)
	assert.Equal(t, "Family event", dto.Reason)
	assert.Equal(t, "2024-03-04", dto.StartDate)
}

func TestCancelRequest_NoContentThenGone(t *testing.T) {
	handler, _ := newTestServer(t)

	created := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")

	rec := doJSON(t, handler, http.MethodDelete, "/api/requests/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/requests", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]RequestDTO](t, rec))
}

func TestResolveTwice_Conflict(t *testing.T) {
	handler, _ := newTestServer(t)

	created := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")

	rec := doJSON(t, handler, http.MethodPost, "/api/requests/"+created.ID+"/deny", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/requests/"+created.ID+"/approve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRequestActions_Unknown404(t *testing.T) {
	handler, _ := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodDelete, "/api/requests/ghost"},
		{http.MethodPost, "/api/requests/ghost/approve"},
		{http.MethodPost, "/api/requests/ghost/deny"},
	} {
		rec := doJSON(t, handler, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGetPrintableForm_FlattensRequest(t *testing.T) {
	handler, _ := newTestServer(t)

	created := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")

	rec := doJSON(t, handler, http.MethodGet, "/api/requests/"+created.ID+"/form", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	form := decode[PrintableFormDTO](t, rec)
	assert.Equal(t, "Whitfield, Dana", form.EmployeeName)
	assert.Equal(t, "EMP002", form.EmployeeCode)
	assert.Equal(t, "Operations", form.Department)
	assert.Equal(t, "2024-03-01", form.DateSubmitted)
	assert.Equal(t, 5, form.TotalDays)
}

// =============================================================================
// FILTER AND SUMMARY ENDPOINT TESTS
// =============================================================================

func TestListRequests_FiltersCompose(t *testing.T) {
	handler, _ := newTestServer(t)

	a := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-05")
	submitViaAPI(t, handler, "pt-1", "2024-03-11", "2024-03-12")
	rec := doJSON(t, handler, http.MethodPost, "/api/requests/"+a.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/requests?department=Operations&status=approved", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dtos := decode[[]RequestDTO](t, rec)
	require.Len(t, dtos, 1)
	assert.Equal(t, a.ID, dtos[0].ID)
}

func TestListRequests_BadDateFilter400(t *testing.T) {
	handler, _ := newTestServer(t)
	rec := doJSON(t, handler, http.MethodGet, "/api/requests?start_from=03/04/2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummary_Aggregates(t *testing.T) {
	handler, _ := newTestServer(t)

	a := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")
	submitViaAPI(t, handler, "pt-1", "2024-03-11", "2024-03-12")
	rec := doJSON(t, handler, http.MethodPost, "/api/requests/"+a.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/requests/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	s := decode[SummaryDTO](t, rec)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.ApprovedCount)
	assert.Equal(t, 1, s.PendingCount)
	assert.Equal(t, 7, s.TotalDaysRequested)
	assert.Equal(t, 5, s.ApprovedDays)
}

// =============================================================================
// CALENDAR ENDPOINT TESTS
// =============================================================================

func TestGetCalendar_GridShapeAndBuckets(t *testing.T) {
	handler, _ := newTestServer(t)

	a := submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-06")
	rec := doJSON(t, handler, http.MethodPost, "/api/requests/"+a.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/calendar/2024/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cal := decode[CalendarDTO](t, rec)
	assert.Len(t, cal.Cells, engine.GridCells)
	require.Len(t, cal.Approved, 1)

	busy := 0
	for _, cell := range cal.Cells {
		busy += len(cell.Requests)
	}
	assert.Equal(t, 3, busy, "one bucket entry per covered day")
}

func TestGetCalendar_BadMonth400(t *testing.T) {
	handler, _ := newTestServer(t)

	for _, path := range []string{"/api/calendar/2024/13", "/api/calendar/2024/0", "/api/calendar/twenty/3"} {
		rec := doJSON(t, handler, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

// =============================================================================
// EXPORT ENDPOINT TESTS
// =============================================================================

func TestExportReport_CSVAttachment(t *testing.T) {
	handler, _ := newTestServer(t)

	submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")

	rec := doJSON(t, handler, http.MethodGet, "/api/reports/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="pto_report_2024-03-01.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Employee Name,Department"))
	assert.True(t, strings.HasPrefix(lines[1], `"Whitfield, Dana",Operations`), lines[1])
}

func TestExportReport_FilterApplies(t *testing.T) {
	handler, _ := newTestServer(t)

	submitViaAPI(t, handler, "ft-1", "2024-03-04", "2024-03-08")
	submitViaAPI(t, handler, "pt-1", "2024-03-11", "2024-03-12")

	rec := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/reports/export?employee_id=%s", "pt-1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Sandoval, Marc")
}
