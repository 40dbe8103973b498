package payroll

import (
	"context"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Payroll, error)
	FindByEmployeePeriod(ctx context.Context, employeeID string, year, month int) (Payroll, error)

	// Upsert inserts the record or, when one already exists for the same
	// (employee, year, month), overwrites its amounts and workflow.
	// Returns the stored row and whether it was newly created.
	Upsert(ctx context.Context, p Payroll) (Payroll, bool, error)

	Delete(ctx context.Context, id string) error

	// UpdateWorkflow persists a workflow transition with optimistic
	// concurrency: the row must still carry the expected status, otherwise
	// approval.ErrStatusConflict is returned.
	UpdateWorkflow(ctx context.Context, id string, expected approval.Status, st approval.State) error

	List(ctx context.Context, filter Filter) ([]Payroll, int64, error)
	GetSummary(ctx context.Context, year, month int) (SummaryResponse, error)
}
