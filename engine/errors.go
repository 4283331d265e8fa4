/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine error types in one place. Callers branch on the category with
  errors.Is/errors.As; the API layer maps each category to an HTTP status.

ERROR CATEGORIES:
  1. Validation errors - malformed or missing submission fields
  2. Balance errors    - request exceeds the available balance
  3. Transition errors - illegal mutation of a non-pending request
  4. Storage errors    - the document store write/read failed

PROPAGATION:
  Every operation returns a success result or exactly one typed failure.
  Nothing is swallowed except best-effort notification failures, which are
  logged and never escalate.
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the category for malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientBalance is returned when the requested day-count
	// exceeds the employee's available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNotPending is returned when a mutation targets a request that has
	// already been resolved. Approved and denied are terminal states.
	ErrNotPending = errors.New("request is not pending")

	// ErrStorage is the category for document-store failures. Writes are
	// not retried automatically.
	ErrStorage = errors.New("storage operation failed")

	// ErrEmployeeNotFound is returned when a referenced employee is absent
	// from the current snapshot.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a referenced request is absent
	// from the current snapshot.
	ErrRequestNotFound = errors.New("request not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports per-field problems with a submission or edit.
// The operation was not attempted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// BalanceError reports a balance shortfall at submission or edit time.
// Distinct from validation so the UI can surface it separately; the request
// is never silently truncated to fit.
type BalanceError struct {
	EmployeeID EmployeeID
	Requested  Amount
	Available  Amount
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %s day(s), available %s",
		e.Requested, e.Available)
}

func (e *BalanceError) Unwrap() error { return ErrInsufficientBalance }

// StateTransitionError reports an illegal mutation of a resolved request.
// No state was changed.
type StateTransitionError struct {
	RequestID RequestID
	Status    Status
	Action    string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s request %s: status is %q, want %q",
		e.Action, e.RequestID, e.Status, StatusPending)
}

func (e *StateTransitionError) Unwrap() error { return ErrNotPending }

// StorageError wraps a document-store failure. The caller is told to retry
// manually; no partial state change is assumed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is the caller's fault
// (bad input, insufficient balance, illegal transition).
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrNotPending)
}

// IsNotFound reports whether the error indicates a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}
