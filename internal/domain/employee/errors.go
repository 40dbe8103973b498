package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrSalaryChangeNotFound = errors.New("salary change not found")
	ErrMissingJoinDate      = errors.New("employee has no join date, cannot resolve active window")
)
