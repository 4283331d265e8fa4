/*
balance.go - Per-employee balance reconciliation

PURPOSE:
  Answers "how many PTO days does this employee have left?" by reconciling
  the fixed allocation for their employment type against the live request
  set:

    Available = Allocation - Used - Pending

  Used is the sum of inclusive day-counts over approved requests, Pending
  over pending requests. Available is NOT clamped: a retroactive allocation
  change or an out-of-band override can push it negative, and downstream
  displays must cope.

DERIVATION, NOT CACHING:
  Balance is recomputed from scratch on every read. There is no live-updated
  ledger to drift out of sync with the request set; any change to the
  collection is reflected by recomputation over the next snapshot.

SEE ALSO:
  - request.go: consults Available before accepting a submission
  - config: allocation overrides per employment type
*/
package engine

// =============================================================================
// ALLOCATION POLICY - Days granted per employment type
// =============================================================================

// AllocationPolicy maps employment types to annual PTO day allocations.
// The 20/10 split is company policy, not law; keep it configurable.
type AllocationPolicy map[EmploymentType]int

// DefaultAllocations is the stock policy: full-time 20 days, part-time 10.
// Bank pools get nothing - they are not people.
func DefaultAllocations() AllocationPolicy {
	return AllocationPolicy{
		FullTime: 20,
		PartTime: 10,
		Bank:     0,
	}
}

// AllocationFor returns the allocation for an employment type. Unknown
// types get zero days rather than an error; the employee simply cannot
// request anything until the policy names their type.
func (p AllocationPolicy) AllocationFor(t EmploymentType) Amount {
	return Days(p[t])
}

// =============================================================================
// BALANCE - Derived, never persisted
// =============================================================================

// Balance is the reconciled PTO position for one employee. It is a pure
// function of (employee, request snapshot, policy) and is never stored.
type Balance struct {
	EmployeeID EmployeeID
	Allocation Amount
	Used       Amount
	Pending    Amount
	Available  Amount
}

// ComputeBalance reconciles an employee's allocation against the request
// snapshot. Requests with malformed date pairs contribute 0 days.
func ComputeBalance(employee Employee, requests []Request, policy AllocationPolicy) Balance {
	return computeBalance(employee, requests, policy, "")
}

// computeBalanceExcluding reconciles the balance while ignoring one request.
// Used when editing a pending request: its current span is being replaced,
// so counting it against the new span would double-charge the employee.
func computeBalanceExcluding(employee Employee, requests []Request, policy AllocationPolicy, exclude RequestID) Balance {
	return computeBalance(employee, requests, policy, exclude)
}

func computeBalance(employee Employee, requests []Request, policy AllocationPolicy, exclude RequestID) Balance {
	allocation := policy.AllocationFor(employee.Type)
	used := Days(0)
	pending := Days(0)

	for _, r := range requests {
		if r.EmployeeID != employee.ID || r.ID == exclude {
			continue
		}
		span := Days(r.DaysRequested())
		switch r.Status {
		case StatusApproved:
			used = used.Add(span)
		case StatusPending:
			pending = pending.Add(span)
		}
	}

	return Balance{
		EmployeeID: employee.ID,
		Allocation: allocation,
		Used:       used,
		Pending:    pending,
		Available:  allocation.Sub(used).Sub(pending),
	}
}
