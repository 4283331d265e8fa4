/*
Package sqlite provides a SQLite-backed document store.

PURPOSE:
  Implements the engine's storage ports (engine.EmployeeStore,
  engine.RequestStore) on SQLite. The same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

SNAPSHOT PUSH:
  The subscription contract mirrors a realtime document store: after every
  committed write the affected collection is reloaded IN FULL and pushed to
  every subscriber. Snapshots are complete materializations, never deltas,
  so subscribers always replace their previous state wholesale.

KEY TABLES:
  employees:     roster entries, including Bank/placeholder slots
  pto_requests:  one row per request; status transitions update in place

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery is cleaner.

CONCURRENCY:
  A mutex serializes writes and snapshot fan-out, which keeps pushes
  ordered per collection. Two concurrent updates to the same request are
  last-write-wins - an accepted limitation of the storage model.

USAGE:
  store, err := sqlite.New("./data/pto.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  employees := store.Employees() // engine.EmployeeStore
  requests := store.Requests()   // engine.RequestStore

SEE ALSO:
  - engine/store.go: port definitions
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/pto-center/engine"
)

const timeLayout = time.RFC3339

// Store owns the database connection and the subscriber registries for
// both collections. Port implementations are exposed via Employees() and
// Requests().
type Store struct {
	db *sql.DB
	mu sync.Mutex

	empSubs map[int]func([]engine.Employee)
	reqSubs map[int]func([]engine.Request)
	nextSub int
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:      db,
		empSubs: make(map[int]func([]engine.Employee)),
		reqSubs: make(map[int]func([]engine.Request)),
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Employees returns the employees-collection port.
func (s *Store) Employees() engine.EmployeeStore {
	return &employeeCollection{s}
}

// Requests returns the pto_requests-collection port.
func (s *Store) Requests() engine.RequestStore {
	return &requestCollection{s}
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT,
		emp_type TEXT NOT NULL,
		availability TEXT,
		department TEXT,
		position TEXT,
		hire_date TEXT,
		email TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pto_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		reason TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		submitted_at TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON pto_requests(employee_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON pto_requests(status);
	CREATE INDEX IF NOT EXISTS idx_requests_dates
		ON pto_requests(start_date, end_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE COLLECTION
// =============================================================================

type employeeCollection struct {
	s *Store
}

var _ engine.EmployeeStore = (*employeeCollection)(nil)

func (c *employeeCollection) CreateBatch(ctx context.Context, employees []engine.Employee) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeLayout)
	for _, e := range employees {
		id := string(e.ID)
		if id == "" {
			id = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO employees (id, name, code, emp_type, availability, department, position, hire_date, email, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, e.Name, e.Code, string(e.Type), e.Availability,
			e.Department, e.Position, dateOrEmpty(e.HireDate), e.Email, now)
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.pushEmployeesLocked(ctx)
	return nil
}

func (c *employeeCollection) List(ctx context.Context) ([]engine.Employee, error) {
	return c.s.loadEmployees(ctx)
}

// Subscribe registers fn and immediately pushes the current collection.
func (c *employeeCollection) Subscribe(fn func([]engine.Employee)) (cancel func()) {
	s := c.s
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.empSubs[id] = fn
	s.mu.Unlock()

	if snap, err := s.loadEmployees(context.Background()); err == nil {
		fn(snap)
	}
	return func() {
		s.mu.Lock()
		delete(s.empSubs, id)
		s.mu.Unlock()
	}
}

func (s *Store) loadEmployees(ctx context.Context) ([]engine.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code, emp_type, availability, department, position, hire_date, email
		FROM employees ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Employee
	for rows.Next() {
		var e engine.Employee
		var id, empType, hireDate string
		if err := rows.Scan(&id, &e.Name, &e.Code, &empType, &e.Availability,
			&e.Department, &e.Position, &hireDate, &e.Email); err != nil {
			return nil, err
		}
		e.ID = engine.EmployeeID(id)
		e.Type = engine.EmploymentType(empType)
		if d, ok := parseDate(hireDate); ok {
			e.HireDate = d
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) pushEmployeesLocked(ctx context.Context) {
	snap, err := s.loadEmployees(ctx)
	if err != nil {
		return
	}
	for _, fn := range s.empSubs {
		fn(snap)
	}
}

// =============================================================================
// REQUEST COLLECTION
// =============================================================================

type requestCollection struct {
	s *Store
}

var _ engine.RequestStore = (*requestCollection)(nil)

func (c *requestCollection) Create(ctx context.Context, req engine.Request) (engine.RequestID, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pto_requests (id, employee_id, reason, start_date, end_date, submitted_at, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(req.EmployeeID), req.Reason,
		dateOrEmpty(req.Start), dateOrEmpty(req.End),
		req.SubmittedAt.UTC().Format(timeLayout), string(req.Status), now)
	if err != nil {
		return "", err
	}

	s.pushRequestsLocked(ctx)
	return engine.RequestID(id), nil
}

func (c *requestCollection) Update(ctx context.Context, id engine.RequestID, patch engine.RequestPatch) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var sets []string
	var args []any
	if patch.Reason != nil {
		sets = append(sets, "reason = ?")
		args = append(args, *patch.Reason)
	}
	if patch.Start != nil {
		sets = append(sets, "start_date = ?")
		args = append(args, dateOrEmpty(*patch.Start))
	}
	if patch.End != nil {
		sets = append(sets, "end_date = ?")
		args = append(args, dateOrEmpty(*patch.End))
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, string(id))

	query := "UPDATE pto_requests SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrRequestNotFound
	}

	s.pushRequestsLocked(ctx)
	return nil
}

func (c *requestCollection) Delete(ctx context.Context, id engine.RequestID) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM pto_requests WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrRequestNotFound
	}

	s.pushRequestsLocked(ctx)
	return nil
}

func (c *requestCollection) Subscribe(fn func([]engine.Request)) (cancel func()) {
	s := c.s
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.reqSubs[id] = fn
	s.mu.Unlock()

	if snap, err := s.loadRequests(context.Background()); err == nil {
		fn(snap)
	}
	return func() {
		s.mu.Lock()
		delete(s.reqSubs, id)
		s.mu.Unlock()
	}
}

func (s *Store) loadRequests(ctx context.Context) ([]engine.Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, reason, start_date, end_date, submitted_at, status
		FROM pto_requests ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Request
	for rows.Next() {
		var r engine.Request
		var id, employeeID, start, end, submitted, status string
		if err := rows.Scan(&id, &employeeID, &r.Reason, &start, &end, &submitted, &status); err != nil {
			return nil, err
		}
		r.ID = engine.RequestID(id)
		r.EmployeeID = engine.EmployeeID(employeeID)
		r.Status = engine.Status(status)
		if d, ok := parseDate(start); ok {
			r.Start = d
		}
		if d, ok := parseDate(end); ok {
			r.End = d
		}
		if t, err := time.Parse(timeLayout, submitted); err == nil {
			r.SubmittedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) pushRequestsLocked(ctx context.Context) {
	snap, err := s.loadRequests(ctx)
	if err != nil {
		return
	}
	for _, fn := range s.reqSubs {
		fn(snap)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func dateOrEmpty(d engine.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parseDate(s string) (engine.Date, bool) {
	if s == "" {
		return engine.Date{}, false
	}
	d, err := engine.ParseDate(s)
	if err != nil {
		return engine.Date{}, false
	}
	return d, true
}
