package payroll

import (
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// Payroll is the monthly payroll record for one employee. Keyed uniquely by
// (employee, period month, period year); creation goes through an upsert so
// the key is never duplicated.
type Payroll struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int

	// Prorated amounts as computed for the period.
	BaseSalary  decimal.Decimal
	TotalSalary decimal.Decimal

	// Allowances = overtime + reimbursements + bonuses.
	// Deductions includes tax; Tax is carried as a pass-through field.
	Allowances decimal.Decimal
	Deductions decimal.Decimal
	Tax        decimal.Decimal
	NetSalary  decimal.Decimal

	Workflow approval.State

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// IsLocked reports whether the payroll status makes the record immutable to
// recompute. Uploaded-to-bank is already locked even though the workflow can
// still advance to bank payment approval.
func IsLocked(s approval.Status) bool {
	return s == approval.StatusUploadedToBank || s == approval.StatusBankPaymentApproved
}
