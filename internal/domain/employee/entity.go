package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID              string
	EmployeeCode    string
	FullName        string
	BaseSalary      decimal.Decimal
	TotalSalary     decimal.Decimal
	JoinDate        *time.Time
	TerminationDate *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active reports whether the employee is employed on the given date.
func (e Employee) Active(on time.Time) bool {
	if e.JoinDate == nil || on.Before(*e.JoinDate) {
		return false
	}
	if e.TerminationDate != nil && on.After(*e.TerminationDate) {
		return false
	}
	return true
}

type SalaryChangeStatus string

const (
	SalaryChangeStatusPending  SalaryChangeStatus = "PENDING"
	SalaryChangeStatusApproved SalaryChangeStatus = "APPROVED"
	SalaryChangeStatusRejected SalaryChangeStatus = "REJECTED"
)

// SalaryChange is an effective-dated salary revision. Only APPROVED changes
// influence payroll calculation.
type SalaryChange struct {
	ID             string
	EmployeeID     string
	OldBaseSalary  decimal.Decimal
	NewBaseSalary  decimal.Decimal
	OldTotalSalary decimal.Decimal
	NewTotalSalary decimal.Decimal
	EffectiveDate  time.Time
	Status         SalaryChangeStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
