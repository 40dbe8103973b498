package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.period_month, p.period_year,
	p.base_salary, p.total_salary, p.allowances, p.deductions, p.tax, p.net_salary,
	p.status, p.workflow, p.created_at, p.updated_at,
	e.full_name, e.employee_code
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	var workflowJSON []byte
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.PeriodMonth, &p.PeriodYear,
		&p.BaseSalary, &p.TotalSalary, &p.Allowances, &p.Deductions, &p.Tax, &p.NetSalary,
		&p.Workflow.Status, &workflowJSON, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeCode,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if workflowJSON != nil {
		var st approval.State
		if err := json.Unmarshal(workflowJSON, &st); err == nil {
			status := p.Workflow.Status
			p.Workflow = st
			p.Workflow.Status = status
		}
	}
	return p, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) FindByEmployeePeriod(ctx context.Context, employeeID string, year, month int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1 AND p.period_year = $2 AND p.period_month = $3
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, year, month))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to find payroll: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) Upsert(ctx context.Context, p payroll.Payroll) (payroll.Payroll, bool, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.Payroll{}, false, fmt.Errorf("failed to generate payroll id: %w", err)
		}
		p.ID = id.String()
	}

	workflowJSON, err := json.Marshal(p.Workflow)
	if err != nil {
		return payroll.Payroll{}, false, fmt.Errorf("failed to marshal workflow: %w", err)
	}

	query := `
		INSERT INTO payrolls (
			id, employee_id, period_month, period_year,
			base_salary, total_salary, allowances, deductions, tax, net_salary,
			status, workflow
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (employee_id, period_year, period_month) DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			total_salary = EXCLUDED.total_salary,
			allowances = EXCLUDED.allowances,
			deductions = EXCLUDED.deductions,
			tax = EXCLUDED.tax,
			net_salary = EXCLUDED.net_salary,
			status = EXCLUDED.status,
			workflow = EXCLUDED.workflow,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (created_at = updated_at) AS inserted
	`

	var inserted bool
	err = q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.PeriodMonth, p.PeriodYear,
		p.BaseSalary, p.TotalSalary, p.Allowances, p.Deductions, p.Tax, p.NetSalary,
		p.Workflow.Status, workflowJSON,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &inserted)
	if err != nil {
		return payroll.Payroll{}, false, fmt.Errorf("failed to upsert payroll: %w", err)
	}

	return p, inserted, nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payrolls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}

	return nil
}

func (r *payrollRepository) UpdateWorkflow(ctx context.Context, id string, expected approval.Status, st approval.State) error {
	q := GetQuerier(ctx, r.db)

	workflowJSON, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow: %w", err)
	}

	query := `
		UPDATE payrolls
		SET status = $1, workflow = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	tag, err := q.Exec(ctx, query, st.Status, workflowJSON, id, expected)
	if err != nil {
		return fmt.Errorf("failed to update payroll workflow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Row missing or the status moved underneath the caller.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return approval.ErrStatusConflict
	}

	return nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.Filter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filter.PeriodMonth != nil {
		where += fmt.Sprintf(" AND p.period_month = $%d", argPos)
		args = append(args, *filter.PeriodMonth)
		argPos++
	}
	if filter.PeriodYear != nil {
		where += fmt.Sprintf(" AND p.period_year = $%d", argPos)
		args = append(args, *filter.PeriodYear)
		argPos++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND p.status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND p.employee_id = $%d", argPos)
		args = append(args, *filter.EmployeeID)
		argPos++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM payrolls p` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls p
		JOIN employees e ON e.id = p.employee_id
	` + where + fmt.Sprintf(`
		ORDER BY p.period_year DESC, p.period_month DESC, e.employee_code
		LIMIT $%d OFFSET $%d
	`, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}

	return payrolls, total, rows.Err()
}

func (r *payrollRepository) GetSummary(ctx context.Context, year, month int) (payroll.SummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(base_salary), 0),
			COALESCE(SUM(allowances), 0),
			COALESCE(SUM(deductions), 0),
			COALESCE(SUM(net_salary), 0),
			COUNT(*) FILTER (WHERE status = $3),
			COUNT(*) FILTER (WHERE status IN ($4, $5))
		FROM payrolls
		WHERE period_year = $1 AND period_month = $2
	`

	s := payroll.SummaryResponse{PeriodYear: year, PeriodMonth: month}
	err := q.QueryRow(ctx, query, year, month,
		approval.StatusPending, approval.StatusUploadedToBank, approval.StatusBankPaymentApproved,
	).Scan(
		&s.TotalEmployees, &s.TotalBaseSalary, &s.TotalAllowances,
		&s.TotalDeductions, &s.TotalNetSalary, &s.PendingCount, &s.LockedCount,
	)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return s, nil
}
