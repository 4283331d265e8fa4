/*
Package memory provides in-memory document store implementations.

PURPOSE:
  Implements the engine's storage ports (engine.EmployeeStore,
  engine.RequestStore) without a database. Used by tests and local
  development; the subscription contract is identical to the SQLite
  store: every committed write fans out the FULL collection to every
  subscriber.

CONCURRENCY:
  A mutex guards collection state. Snapshot fan-out happens outside the
  lock with a copied slice, so a subscriber calling back into the store
  cannot deadlock.
*/
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/pto-center/engine"
)

// =============================================================================
// REQUEST STORE
// =============================================================================

type RequestStore struct {
	mu          sync.Mutex
	requests    []engine.Request
	subscribers map[int]func([]engine.Request)
	nextSub     int
}

var _ engine.RequestStore = (*RequestStore)(nil)

func NewRequestStore() *RequestStore {
	return &RequestStore{subscribers: make(map[int]func([]engine.Request))}
}

func (s *RequestStore) Create(_ context.Context, req engine.Request) (engine.RequestID, error) {
	s.mu.Lock()
	req.ID = engine.RequestID(uuid.NewString())
	s.requests = append(s.requests, req)
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	fanOut(snap, subs)
	return req.ID, nil
}

func (s *RequestStore) Update(_ context.Context, id engine.RequestID, patch engine.RequestPatch) error {
	s.mu.Lock()
	found := false
	for i := range s.requests {
		if s.requests[i].ID != id {
			continue
		}
		found = true
		if patch.Reason != nil {
			s.requests[i].Reason = *patch.Reason
		}
		if patch.Start != nil {
			s.requests[i].Start = *patch.Start
		}
		if patch.End != nil {
			s.requests[i].End = *patch.End
		}
		if patch.Status != nil {
			s.requests[i].Status = *patch.Status
		}
		break
	}
	if !found {
		s.mu.Unlock()
		return engine.ErrRequestNotFound
	}
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	fanOut(snap, subs)
	return nil
}

func (s *RequestStore) Delete(_ context.Context, id engine.RequestID) error {
	s.mu.Lock()
	found := false
	for i := range s.requests {
		if s.requests[i].ID == id {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return engine.ErrRequestNotFound
	}
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	fanOut(snap, subs)
	return nil
}

func (s *RequestStore) List(_ context.Context) ([]engine.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]engine.Request(nil), s.requests...), nil
}

// Subscribe registers fn and immediately pushes the current collection.
func (s *RequestStore) Subscribe(fn func([]engine.Request)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	snap := append([]engine.Request(nil), s.requests...)
	s.mu.Unlock()

	fn(snap)
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *RequestStore) snapshotLocked() ([]engine.Request, []func([]engine.Request)) {
	snap := append([]engine.Request(nil), s.requests...)
	subs := make([]func([]engine.Request), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return snap, subs
}

func fanOut[T any](snap []T, subs []func([]T)) {
	for _, fn := range subs {
		fn(snap)
	}
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

type EmployeeStore struct {
	mu          sync.Mutex
	employees   []engine.Employee
	subscribers map[int]func([]engine.Employee)
	nextSub     int
}

var _ engine.EmployeeStore = (*EmployeeStore)(nil)

func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{subscribers: make(map[int]func([]engine.Employee))}
}

func (s *EmployeeStore) CreateBatch(_ context.Context, employees []engine.Employee) error {
	s.mu.Lock()
	for _, e := range employees {
		if e.ID == "" {
			e.ID = engine.EmployeeID(uuid.NewString())
		}
		s.employees = append(s.employees, e)
	}
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	fanOut(snap, subs)
	return nil
}

func (s *EmployeeStore) List(_ context.Context) ([]engine.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]engine.Employee(nil), s.employees...), nil
}

func (s *EmployeeStore) Subscribe(fn func([]engine.Employee)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	snap := append([]engine.Employee(nil), s.employees...)
	s.mu.Unlock()

	fn(snap)
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *EmployeeStore) snapshotLocked() ([]engine.Employee, []func([]engine.Employee)) {
	snap := append([]engine.Employee(nil), s.employees...)
	subs := make([]func([]engine.Employee), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return snap, subs
}
