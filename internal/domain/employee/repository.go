package employee

import (
	"context"
	"time"
)

// Repository defines read access to employees and their salary revisions.
// Employee records are owned by HR; this subsystem never writes them.
type Repository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)

	// ListApprovedChangesInRange returns APPROVED salary changes with an
	// effective date inside [from, to], ordered by effective date ascending.
	ListApprovedChangesInRange(ctx context.Context, employeeID string, from, to time.Time) ([]SalaryChange, error)

	// GetLatestApprovedChangeBefore returns the most recent APPROVED change
	// effective strictly before the given date, or ErrSalaryChangeNotFound.
	GetLatestApprovedChangeBefore(ctx context.Context, employeeID string, before time.Time) (SalaryChange, error)
}
