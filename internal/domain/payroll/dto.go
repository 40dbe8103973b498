package payroll

import (
	"context"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// SalaryPeriod is one contiguous slice of the employee's active window in the
// month, carrying the salary in effect for those days.
type SalaryPeriod struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	TotalSalary  decimal.Decimal `json:"total_salary"`
	CalendarDays int             `json:"calendar_days"`
}

// ProrationFlags explains why a month was (or was not) prorated.
type ProrationFlags struct {
	JoinedMidMonth    bool `json:"joined_mid_month"`
	TerminatedInMonth bool `json:"terminated_in_month"`
	SalaryChanged     bool `json:"salary_changed"`
	UnpaidLeave       bool `json:"unpaid_leave"`
}

// CalculationResult is the output of the payroll calculator for one
// employee and month.
type CalculationResult struct {
	OriginalBaseSalary  decimal.Decimal `json:"original_base_salary"`
	OriginalTotalSalary decimal.Decimal `json:"original_total_salary"`
	ProratedBaseSalary  decimal.Decimal `json:"prorated_base_salary"`
	ProratedTotalSalary decimal.Decimal `json:"prorated_total_salary"`
	DaysInMonth         int             `json:"days_in_month"`
	CalendarDaysWorked  int             `json:"calendar_days_worked"`
	UnpaidLeaveDays     int             `json:"unpaid_leave_days"`
	ProrataFactor       decimal.Decimal `json:"prorata_factor"`
	Periods             []SalaryPeriod  `json:"periods"`
	Flags               ProrationFlags  `json:"flags"`
}

// FullMonth reports whether the flat monthly salary was used unchanged.
func (r CalculationResult) FullMonth() bool {
	return r.CalendarDaysWorked == r.DaysInMonth &&
		len(r.Periods) == 1 &&
		r.UnpaidLeaveDays == 0
}

// SyncTrigger describes the approval event that caused a recompute to be
// scheduled. Bursts coalesce; the eventual run reports every trigger.
type SyncTrigger struct {
	Kind     approval.Kind   `json:"kind"`
	RecordID string          `json:"record_id"`
	Action   approval.Action `json:"action"`
	ActorID  string          `json:"actor_id"`
	At       time.Time       `json:"at"`
}

// SyncScheduler is how approval transitions request a debounced recompute of
// the payroll owning an adjustment record.
type SyncScheduler interface {
	Schedule(employeeID string, year int, month time.Month, trig SyncTrigger)
}

// Notifier delivers the "payroll updated" event to external subscribers.
type Notifier interface {
	PayrollUpdated(ctx context.Context, p Payroll, triggers []SyncTrigger)
}

type SyncStatus string

const (
	SyncCreated SyncStatus = "created"
	SyncUpdated SyncStatus = "updated"
	SyncSkipped SyncStatus = "skipped"
)

type SkipReason string

const (
	SkipEmployeeNotFound SkipReason = "EMPLOYEE_NOT_FOUND"
	SkipPayrollLocked    SkipReason = "PAYROLL_LOCKED"
	SkipCreationDisabled SkipReason = "CREATION_DISABLED"
	SkipCalculationError SkipReason = "CALCULATION_FAILED"
)

// SyncResult is the outcome of one recompute.
type SyncResult struct {
	Status  SyncStatus `json:"status"`
	Reason  SkipReason `json:"reason,omitempty"`
	Payroll *Payroll   `json:"payroll,omitempty"`
}

// ========== REQUEST / RESPONSE DTOs ==========

type GeneratePayrollRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
	Force       bool     `json:"force,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransitionRequest struct {
	ActorID string  `json:"actor_id"`
	Reason  *string `json:"reason,omitempty"`
}

type PayrollResponse struct {
	ID           string            `json:"id"`
	EmployeeID   string            `json:"employee_id"`
	EmployeeName *string           `json:"employee_name,omitempty"`
	EmployeeCode *string           `json:"employee_code,omitempty"`
	PeriodMonth  int               `json:"period_month"`
	PeriodYear   int               `json:"period_year"`
	BaseSalary   decimal.Decimal   `json:"base_salary"`
	TotalSalary  decimal.Decimal   `json:"total_salary"`
	Allowances   decimal.Decimal   `json:"allowances"`
	Deductions   decimal.Decimal   `json:"deductions"`
	Tax          decimal.Decimal   `json:"tax"`
	NetSalary    decimal.Decimal   `json:"net_salary"`
	Status       approval.Status   `json:"status"`
	Stamps       approval.StampSet `json:"stamps,omitempty"`
	HoldReason   *string           `json:"hold_reason,omitempty"`
	HoldHistory  approval.HoldLog  `json:"hold_history,omitempty"`
	RejectReason *string           `json:"reject_reason,omitempty"`
	RejectedFrom *approval.Status  `json:"rejected_from,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func ToResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:           p.ID,
		EmployeeID:   p.EmployeeID,
		EmployeeName: p.EmployeeName,
		EmployeeCode: p.EmployeeCode,
		PeriodMonth:  p.PeriodMonth,
		PeriodYear:   p.PeriodYear,
		BaseSalary:   p.BaseSalary,
		TotalSalary:  p.TotalSalary,
		Allowances:   p.Allowances,
		Deductions:   p.Deductions,
		Tax:          p.Tax,
		NetSalary:    p.NetSalary,
		Status:       p.Workflow.Status,
		Stamps:       p.Workflow.Stamps,
		HoldReason:   p.Workflow.HoldReason,
		HoldHistory:  p.Workflow.HoldHistory,
		RejectReason: p.Workflow.RejectReason,
		RejectedFrom: p.Workflow.RejectedFrom,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type Filter struct {
	PeriodMonth *int             `json:"period_month,omitempty"`
	PeriodYear  *int             `json:"period_year,omitempty"`
	Status      *approval.Status `json:"status,omitempty"`
	EmployeeID  *string          `json:"employee_id,omitempty"`
	Page        int              `json:"page"`
	Limit       int              `json:"limit"`
}

type ListResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

type SummaryResponse struct {
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	TotalEmployees  int             `json:"total_employees"`
	TotalBaseSalary decimal.Decimal `json:"total_base_salary"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNetSalary  decimal.Decimal `json:"total_net_salary"`
	PendingCount    int             `json:"pending_count"`
	LockedCount     int             `json:"locked_count"`
}
