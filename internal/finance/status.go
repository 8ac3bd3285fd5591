package finance

import "time"

// Status is the derived lifecycle state of a loan.
type Status string

// Loan status values
const (
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

// DeriveStatus derives a loan's status from its due date and reconciled
// outstanding balance at the given moment. Status is never authoritative:
// callers recompute it whenever payments change, so "paid" is not sticky —
// deleting a payment that brings the balance back above zero reverts the
// loan to pending or overdue.
//
// Dates are compared at day granularity: a loan is overdue only once the
// current date is strictly past the due date.
func DeriveStatus(dueDate time.Time, outstanding float64, now time.Time) Status {
	if outstanding <= 0 {
		return StatusPaid
	}
	if truncateDay(now).After(truncateDay(dueDate)) {
		return StatusOverdue
	}
	return StatusPending
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
