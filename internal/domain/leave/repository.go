package leave

import (
	"context"
	"time"
)

// Repository defines the read-only leave and holiday lookups the payroll
// calculator consumes.
type Repository interface {
	// ListApprovedUnpaidLeave returns approved leave requests overlapping
	// [from, to] that deduct pay (see Request.Unpaid).
	ListApprovedUnpaidLeave(ctx context.Context, employeeID string, from, to time.Time) ([]Request, error)

	ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
