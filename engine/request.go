/*
request.go - Request state machine and mutation guards

PURPOSE:
  Enforces the legal lifecycle of a PTO request:

    pending ──▶ approved   (terminal)
    pending ──▶ denied     (terminal)
    pending ──▶ deleted    (employee cancellation)

  Only pending requests may be edited or cancelled, and a request is
  resolved exactly once. There is no transition out of approved or denied:
  re-approval and re-denial are rejected with a StateTransitionError rather
  than treated as no-ops, so a double-click or a stale admin tab surfaces
  loudly instead of pretending to succeed.

VALIDATION ORDER:
  1. Field validation (employee selected and eligible, reason non-empty
     after trimming, both dates present, start <= end)
  2. Balance check: requested inclusive days must not exceed Available.
     The boundary is inclusive - requested == available passes.
  Field problems come back as ValidationError, shortfalls as BalanceError;
  in both cases no write is attempted.

NOTIFICATIONS:
  Submission, approval, and denial emit a best-effort notification. A sink
  failure is logged and never blocks or rolls back the transition.
*/
package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// NOTIFICATION SINK
// =============================================================================

// Event identifies a lifecycle transition worth telling humans about.
type Event string

const (
	EventSubmitted Event = "submitted"
	EventApproved  Event = "approved"
	EventDenied    Event = "denied"
)

// Notifier delivers a human-readable message for a request event.
// Implementations are best-effort; errors are logged, never escalated.
type Notifier interface {
	Notify(ctx context.Context, event Event, employee Employee, req Request) error
}

// =============================================================================
// SERVICE - The write path
// =============================================================================

// Service runs the request lifecycle. All reads go through the injected
// View's latest snapshot; all writes delegate a single document operation
// to the request store and await its completion.
type Service struct {
	Requests RequestStore
	View     *View
	Policy   AllocationPolicy

	Notifier Notifier    // optional
	Log      *zap.Logger // optional

	// Now stamps submissions. Defaults to time.Now.
	Now func() time.Time
}

func NewService(requests RequestStore, view *View, policy AllocationPolicy) *Service {
	return &Service{
		Requests: requests,
		View:     view,
		Policy:   policy,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// =============================================================================
// SUBMIT
// =============================================================================

// SubmitInput carries a new submission. Zero dates mean "not provided".
type SubmitInput struct {
	EmployeeID EmployeeID
	Reason     string
	Start      Date
	End        Date
}

// Submit validates a new request and, on success, creates it in pending
// state with the current wall-clock submission timestamp.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Request, error) {
	snap := s.View.Snapshot()

	employee, err := s.validateFields(snap, in.EmployeeID, in.Reason, in.Start, in.End)
	if err != nil {
		return Request{}, err
	}
	if err := s.checkBalance(employee, snap.Requests, in.Start, in.End, ""); err != nil {
		return Request{}, err
	}

	req := Request{
		EmployeeID:  in.EmployeeID,
		Reason:      strings.TrimSpace(in.Reason),
		Start:       in.Start,
		End:         in.End,
		SubmittedAt: s.now(),
		Status:      StatusPending,
	}

	id, err := s.Requests.Create(ctx, req)
	if err != nil {
		return Request{}, &StorageError{Op: "create", Err: err}
	}
	req.ID = id

	s.notify(ctx, EventSubmitted, employee, req)
	return req, nil
}

// =============================================================================
// EDIT
// =============================================================================

// EditInput carries field overrides for a pending request. Nil fields keep
// their current values.
type EditInput struct {
	Reason *string
	Start  *Date
	End    *Date
}

// Edit re-validates the merged (old + overridden) field values with the
// same rules as Submit and applies the change. Only pending requests are
// editable.
//
// The balance check excludes the request's own current pending days: the
// old span is being replaced, so charging both old and new spans would
// double-count.
func (s *Service) Edit(ctx context.Context, id RequestID, in EditInput) (Request, error) {
	snap := s.View.Snapshot()

	current, ok := snap.RequestByID(id)
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	if current.Status != StatusPending {
		return Request{}, &StateTransitionError{RequestID: id, Status: current.Status, Action: "edit"}
	}

	merged := current
	if in.Reason != nil {
		merged.Reason = *in.Reason
	}
	if in.Start != nil {
		merged.Start = *in.Start
	}
	if in.End != nil {
		merged.End = *in.End
	}

	employee, err := s.validateFields(snap, merged.EmployeeID, merged.Reason, merged.Start, merged.End)
	if err != nil {
		return Request{}, err
	}
	if err := s.checkBalance(employee, snap.Requests, merged.Start, merged.End, id); err != nil {
		return Request{}, err
	}

	merged.Reason = strings.TrimSpace(merged.Reason)
	patch := RequestPatch{Reason: &merged.Reason, Start: &merged.Start, End: &merged.End}
	if err := s.Requests.Update(ctx, id, patch); err != nil {
		return Request{}, &StorageError{Op: "update", Err: err}
	}
	return merged, nil
}

// =============================================================================
// CANCEL
// =============================================================================

// Cancel deletes a pending request. Resolved requests are immutable.
func (s *Service) Cancel(ctx context.Context, id RequestID) error {
	snap := s.View.Snapshot()

	current, ok := snap.RequestByID(id)
	if !ok {
		return ErrRequestNotFound
	}
	if current.Status != StatusPending {
		return &StateTransitionError{RequestID: id, Status: current.Status, Action: "cancel"}
	}

	if err := s.Requests.Delete(ctx, id); err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

// =============================================================================
// APPROVE / DENY
// =============================================================================

// Approve resolves a pending request to approved. Status is the only field
// that changes.
func (s *Service) Approve(ctx context.Context, id RequestID) (Request, error) {
	return s.resolve(ctx, id, StatusApproved, EventApproved, "approve")
}

// Deny resolves a pending request to denied.
func (s *Service) Deny(ctx context.Context, id RequestID) (Request, error) {
	return s.resolve(ctx, id, StatusDenied, EventDenied, "deny")
}

func (s *Service) resolve(ctx context.Context, id RequestID, to Status, event Event, action string) (Request, error) {
	snap := s.View.Snapshot()

	current, ok := snap.RequestByID(id)
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	if current.Status != StatusPending {
		return Request{}, &StateTransitionError{RequestID: id, Status: current.Status, Action: action}
	}

	patch := RequestPatch{Status: &to}
	if err := s.Requests.Update(ctx, id, patch); err != nil {
		return Request{}, &StorageError{Op: "update", Err: err}
	}
	current.Status = to

	if employee, ok := snap.EmployeeByID(current.EmployeeID); ok {
		s.notify(ctx, event, employee, current)
	}
	return current, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

func (s *Service) validateFields(snap Snapshot, employeeID EmployeeID, reason string, start, end Date) (Employee, error) {
	fields := map[string]string{}

	var employee Employee
	if employeeID == "" {
		fields["employee"] = "Please select an employee"
	} else {
		found, ok := snap.EmployeeByID(employeeID)
		switch {
		case !ok:
			fields["employee"] = "Unknown employee"
		case !found.Eligible():
			fields["employee"] = "This entry is not eligible for PTO"
		default:
			employee = found
		}
	}

	if strings.TrimSpace(reason) == "" {
		fields["reason"] = "Please enter a reason for time off"
	}
	if start.IsZero() {
		fields["start_date"] = "Please select a start date"
	}
	if end.IsZero() {
		fields["end_date"] = "Please select an end date"
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		fields["end_date"] = "End date cannot be before start date"
	}

	if len(fields) > 0 {
		return Employee{}, &ValidationError{Fields: fields}
	}
	return employee, nil
}

func (s *Service) checkBalance(employee Employee, requests []Request, start, end Date, exclude RequestID) error {
	balance := computeBalanceExcluding(employee, requests, s.Policy, exclude)
	requested := Days(InclusiveDays(start, end))

	// Boundary is inclusive: requested == available is allowed.
	if requested.GreaterThan(balance.Available) {
		return &BalanceError{
			EmployeeID: employee.ID,
			Requested:  requested,
			Available:  balance.Available,
		}
	}
	return nil
}

func (s *Service) notify(ctx context.Context, event Event, employee Employee, req Request) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, event, employee, req); err != nil {
		s.logger().Warn("notification failed",
			zap.String("event", string(event)),
			zap.String("request_id", string(req.ID)),
			zap.Error(err))
	}
}
