package adjustment

import "errors"

var (
	ErrBonusNotFound          = errors.New("bonus not found")
	ErrReimbursementNotFound  = errors.New("reimbursement not found")
	ErrDeductionNotFound      = errors.New("deduction not found")
	ErrOvertimeNotFound       = errors.New("overtime record not found")
	ErrOvertimeAlreadyDecided = errors.New("overtime record already decided")
)
