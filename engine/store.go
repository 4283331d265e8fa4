/*
store.go - Storage ports consumed by the engine

PURPOSE:
  Defines the interface between the engine and the document store. The
  engine never holds authoritative state: it reads complete collection
  snapshots pushed by the store and delegates every mutation back to it.

SNAPSHOT CONTRACT:
  Subscribe pushes the FULL ordered collection on every change, not deltas.
  Each push supersedes the previous one entirely; the engine must never
  merge an old snapshot with a newer one. Out-of-order delivery is harmless
  because every push is self-contained.

WRITE CONTRACT:
  Each write targets exactly one document and is presumed atomic at the
  store. Failures surface to the caller as StorageError; nothing is retried
  automatically.

IMPLEMENTATIONS:
  - store/memory: in-memory, for tests and development
  - store/sqlite: SQLite-backed, for production

SEE ALSO:
  - snapshot.go: View, the engine-side snapshot holder
  - request.go: Service, the write path
*/
package engine

import "context"

// =============================================================================
// REQUEST STORE
// =============================================================================

// RequestPatch is a partial update to a request document. Nil fields are
// left untouched.
type RequestPatch struct {
	Reason *string
	Start  *Date
	End    *Date
	Status *Status
}

// RequestStore is the port to the pto_requests collection.
type RequestStore interface {
	// Create persists a new request and returns the store-assigned id.
	Create(ctx context.Context, req Request) (RequestID, error)

	// Update applies a partial update to one request document.
	Update(ctx context.Context, id RequestID, patch RequestPatch) error

	// Delete removes one request document.
	Delete(ctx context.Context, id RequestID) error

	// Subscribe registers fn to receive the full collection on every
	// change, starting with the current state. The returned func
	// unsubscribes.
	Subscribe(fn func([]Request)) (cancel func())
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// EmployeeStore is the port to the employees collection. The engine only
// ever bulk-inserts (seed import) and reads; roster edits belong to the
// management UI, outside this core.
type EmployeeStore interface {
	// CreateBatch inserts a batch of employees.
	CreateBatch(ctx context.Context, employees []Employee) error

	// List returns the full collection in stable order.
	List(ctx context.Context) ([]Employee, error)

	// Subscribe registers fn to receive the full collection on every
	// change, starting with the current state. The returned func
	// unsubscribes.
	Subscribe(fn func([]Employee)) (cancel func())
}
