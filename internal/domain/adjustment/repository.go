package adjustment

import (
	"context"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// Repository is the data access contract shared by bonuses, reimbursements,
// and deductions. One implementation exists per backing table.
type Repository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)

	// UpdateWorkflow persists a new workflow state with an atomic
	// check-then-set against the expected current status. Returns
	// approval.ErrStatusConflict when the row moved underneath the caller.
	UpdateWorkflow(ctx context.Context, id string, expected approval.Status, st approval.State) (Record, error)

	// SumAmountByStatus totals record amounts for an employee with dates in
	// [from, to] and a status in the given set.
	SumAmountByStatus(ctx context.Context, employeeID string, from, to time.Time, statuses []approval.Status) (decimal.Decimal, error)
}

type OvertimeRepository interface {
	Create(ctx context.Context, ot Overtime) (Overtime, error)
	GetByID(ctx context.Context, id string) (Overtime, error)
	UpdateStatus(ctx context.Context, id string, expected, next OvertimeStatus, actorID string, reason *string) (Overtime, error)
	SumApprovedAmount(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error)
}
