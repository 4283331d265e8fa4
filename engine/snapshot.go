package engine

import "sync"

// =============================================================================
// VIEW - Latest-snapshot holder
// =============================================================================

// View holds the latest complete snapshot of both collections. Every push
// from the store replaces the corresponding collection wholesale; stale
// snapshots are never merged with newer ones.
//
// All derived reads (balances, calendar buckets, report aggregates) go
// through Snapshot(), so they always see one consistent materialization.
type View struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewView() *View {
	return &View{}
}

// Snapshot returns the latest snapshot. Callers treat the contained slices
// as immutable.
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

// SetEmployees replaces the employee collection.
func (v *View) SetEmployees(employees []Employee) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.Employees = employees
}

// SetRequests replaces the request collection.
func (v *View) SetRequests(requests []Request) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snap.Requests = requests
}

// Bind subscribes the view to both collections. The returned func cancels
// both subscriptions.
func (v *View) Bind(employees EmployeeStore, requests RequestStore) (cancel func()) {
	cancelEmp := employees.Subscribe(v.SetEmployees)
	cancelReq := requests.Subscribe(v.SetRequests)
	return func() {
		cancelEmp()
		cancelReq()
	}
}
