package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/employee"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Workflow errors carry current-vs-expected status detail
	var invalidTransition *approval.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		UnprocessableEntity(w, "INVALID_STATE_TRANSITION", invalidTransition.Error(), map[string]string{
			"current_status": string(invalidTransition.Current),
			"action":         string(invalidTransition.Action),
		})
		return
	}
	var locked *approval.LockedRecordError
	if errors.As(err, &locked) {
		Conflict(w, fmt.Sprintf("%s record is locked in status %s", locked.Kind, locked.Status))
		return
	}

	switch {
	case errors.Is(err, approval.ErrStatusConflict):
		Conflict(w, "Record status changed, please retry")
	case errors.Is(err, approval.ErrUnknownAction):
		BadRequest(w, "Unknown workflow action", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrMissingJoinDate):
		BadRequest(w, "Employee has no join date, cannot calculate payroll", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollLocked):
		Conflict(w, "Payroll record is locked")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Adjustment domain errors
	case errors.Is(err, adjustment.ErrBonusNotFound):
		NotFound(w, "Bonus not found")
	case errors.Is(err, adjustment.ErrReimbursementNotFound):
		NotFound(w, "Reimbursement not found")
	case errors.Is(err, adjustment.ErrDeductionNotFound):
		NotFound(w, "Deduction not found")
	case errors.Is(err, adjustment.ErrOvertimeNotFound):
		NotFound(w, "Overtime record not found")
	case errors.Is(err, adjustment.ErrOvertimeAlreadyDecided):
		Conflict(w, "Overtime record already decided")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
