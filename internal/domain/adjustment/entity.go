package adjustment

import (
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// Record is a financial adjustment to an employee's payroll: a bonus,
// reimbursement, or deduction. All three share one shape and differ only in
// their approval graph and sign in the net calculation.
type Record struct {
	ID          string
	EmployeeID  string
	Amount      decimal.Decimal
	Date        time.Time
	Description *string
	Workflow    approval.State
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}

type OvertimeStatus string

const (
	OvertimeStatusPending  OvertimeStatus = "PENDING"
	OvertimeStatusApproved OvertimeStatus = "APPROVED"
	OvertimeStatusRejected OvertimeStatus = "REJECTED"
)

// Overtime is a date-scoped extra-hours record. Only APPROVED entries count
// toward payroll. Amount is fixed at creation time from the proration rules,
// so later salary changes never reprice past records.
type Overtime struct {
	ID                 string
	EmployeeID         string
	Date               time.Time
	Hours              decimal.Decimal
	IsRestDayOrHoliday bool
	IsNightWork        bool
	UseCompensatoryDay bool
	Amount             decimal.Decimal
	Status             OvertimeStatus
	DecidedBy          *string
	DecidedAt          *time.Time
	RejectReason       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
