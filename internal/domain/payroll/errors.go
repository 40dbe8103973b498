package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPayrollNotFound      = errors.New("payroll record not found")
	ErrPayrollAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollLocked        = errors.New("payroll record is locked, cannot modify")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
)

// DependencyError wraps a failed holiday or leave lookup during calculation.
// Callers log it and degrade to "no effect"; it never fails a calculation.
type DependencyError struct {
	Source string
	Err    error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("calculation dependency %s failed: %v", e.Source, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
