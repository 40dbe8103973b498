package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/employee"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, full_name, base_salary, total_salary,
			   join_date, termination_date, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.BaseSalary, &e.TotalSalary,
		&e.JoinDate, &e.TerminationDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, full_name, base_salary, total_salary,
			   join_date, termination_date, created_at, updated_at
		FROM employees
		WHERE join_date IS NOT NULL
		  AND join_date <= NOW()
		  AND (termination_date IS NULL OR termination_date >= NOW())
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.EmployeeCode, &e.FullName, &e.BaseSalary, &e.TotalSalary,
			&e.JoinDate, &e.TerminationDate, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

func (r *employeeRepository) ListApprovedChangesInRange(ctx context.Context, employeeID string, from, to time.Time) ([]employee.SalaryChange, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, old_base_salary, new_base_salary,
			   old_total_salary, new_total_salary, effective_date, status,
			   created_at, updated_at
		FROM salary_changes
		WHERE employee_id = $1
		  AND status = $2
		  AND effective_date BETWEEN $3 AND $4
		ORDER BY effective_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, employee.SalaryChangeStatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary changes: %w", err)
	}
	defer rows.Close()

	var changes []employee.SalaryChange
	for rows.Next() {
		var c employee.SalaryChange
		if err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.OldBaseSalary, &c.NewBaseSalary,
			&c.OldTotalSalary, &c.NewTotalSalary, &c.EffectiveDate, &c.Status,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary change: %w", err)
		}
		changes = append(changes, c)
	}

	return changes, rows.Err()
}

func (r *employeeRepository) GetLatestApprovedChangeBefore(ctx context.Context, employeeID string, before time.Time) (employee.SalaryChange, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, old_base_salary, new_base_salary,
			   old_total_salary, new_total_salary, effective_date, status,
			   created_at, updated_at
		FROM salary_changes
		WHERE employee_id = $1
		  AND status = $2
		  AND effective_date < $3
		ORDER BY effective_date DESC
		LIMIT 1
	`

	var c employee.SalaryChange
	err := q.QueryRow(ctx, query, employeeID, employee.SalaryChangeStatusApproved, before).Scan(
		&c.ID, &c.EmployeeID, &c.OldBaseSalary, &c.NewBaseSalary,
		&c.OldTotalSalary, &c.NewTotalSalary, &c.EffectiveDate, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.SalaryChange{}, employee.ErrSalaryChangeNotFound
		}
		return employee.SalaryChange{}, fmt.Errorf("failed to get latest salary change: %w", err)
	}

	return c, nil
}
