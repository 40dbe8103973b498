package adjustment

import (
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRecordRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description *string         `json:"description,omitempty"`
}

func (r *CreateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateOvertimeRequest struct {
	EmployeeID         string          `json:"employee_id"`
	Date               string          `json:"date"`
	Hours              decimal.Decimal `json:"hours"`
	IsRestDayOrHoliday bool            `json:"is_rest_day_or_holiday"`
	IsNightWork        bool            `json:"is_night_work"`
	UseCompensatoryDay bool            `json:"use_compensatory_day"`
}

func (r *CreateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if !r.Hours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID           string            `json:"id"`
	EmployeeID   string            `json:"employee_id"`
	EmployeeName *string           `json:"employee_name,omitempty"`
	Amount       decimal.Decimal   `json:"amount"`
	Date         string            `json:"date"`
	Description  *string           `json:"description,omitempty"`
	Status       approval.Status   `json:"status"`
	Stamps       approval.StampSet `json:"stamps,omitempty"`
	HoldReason   *string           `json:"hold_reason,omitempty"`
	HoldHistory  approval.HoldLog  `json:"hold_history,omitempty"`
	RejectReason *string           `json:"reject_reason,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func ToRecordResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		Amount:       rec.Amount,
		Date:         rec.Date.Format("2006-01-02"),
		Description:  rec.Description,
		Status:       rec.Workflow.Status,
		Stamps:       rec.Workflow.Stamps,
		HoldReason:   rec.Workflow.HoldReason,
		HoldHistory:  rec.Workflow.HoldHistory,
		RejectReason: rec.Workflow.RejectReason,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

type OvertimeResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	Date               string          `json:"date"`
	Hours              decimal.Decimal `json:"hours"`
	IsRestDayOrHoliday bool            `json:"is_rest_day_or_holiday"`
	IsNightWork        bool            `json:"is_night_work"`
	UseCompensatoryDay bool            `json:"use_compensatory_day"`
	Amount             decimal.Decimal `json:"amount"`
	Status             OvertimeStatus  `json:"status"`
	RejectReason       *string         `json:"reject_reason,omitempty"`
}

func ToOvertimeResponse(ot Overtime) OvertimeResponse {
	return OvertimeResponse{
		ID:                 ot.ID,
		EmployeeID:         ot.EmployeeID,
		Date:               ot.Date.Format("2006-01-02"),
		Hours:              ot.Hours,
		IsRestDayOrHoliday: ot.IsRestDayOrHoliday,
		IsNightWork:        ot.IsNightWork,
		UseCompensatoryDay: ot.UseCompensatoryDay,
		Amount:             ot.Amount,
		Status:             ot.Status,
		RejectReason:       ot.RejectReason,
	}
}
