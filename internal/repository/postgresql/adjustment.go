package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// recordStore implements adjustment.Repository for one backing table.
// Bonuses, reimbursements, and deductions share the row shape; only the
// table name and not-found sentinel differ.
type recordStore struct {
	db       *database.DB
	table    string
	notFound error
}

func NewBonusRepository(db *database.DB) adjustment.Repository {
	return &recordStore{db: db, table: "bonuses", notFound: adjustment.ErrBonusNotFound}
}

func NewReimbursementRepository(db *database.DB) adjustment.Repository {
	return &recordStore{db: db, table: "reimbursements", notFound: adjustment.ErrReimbursementNotFound}
}

func NewDeductionRepository(db *database.DB) adjustment.Repository {
	return &recordStore{db: db, table: "deductions", notFound: adjustment.ErrDeductionNotFound}
}

func (r *recordStore) scanRecord(row pgx.Row) (adjustment.Record, error) {
	var rec adjustment.Record
	var workflowJSON []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Amount, &rec.Date, &rec.Description,
		&rec.Workflow.Status, &workflowJSON, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		return adjustment.Record{}, err
	}
	if workflowJSON != nil {
		var st approval.State
		if err := json.Unmarshal(workflowJSON, &st); err == nil {
			status := rec.Workflow.Status
			rec.Workflow = st
			rec.Workflow.Status = status
		}
	}
	return rec, nil
}

func (r *recordStore) Create(ctx context.Context, rec adjustment.Record) (adjustment.Record, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return adjustment.Record{}, fmt.Errorf("failed to generate record id: %w", err)
	}
	rec.ID = id.String()

	workflowJSON, err := json.Marshal(rec.Workflow)
	if err != nil {
		return adjustment.Record{}, fmt.Errorf("failed to marshal workflow: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, employee_id, amount, date, description, status, workflow)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, r.table)

	err = q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.Amount, rec.Date, rec.Description,
		rec.Workflow.Status, workflowJSON,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return adjustment.Record{}, fmt.Errorf("failed to create %s record: %w", r.table, err)
	}

	return rec, nil
}

func (r *recordStore) GetByID(ctx context.Context, id string) (adjustment.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT t.id, t.employee_id, t.amount, t.date, t.description,
			   t.status, t.workflow, t.created_at, t.updated_at,
			   e.full_name
		FROM %s t
		JOIN employees e ON e.id = t.employee_id
		WHERE t.id = $1
	`, r.table)

	rec, err := r.scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return adjustment.Record{}, r.notFound
		}
		return adjustment.Record{}, fmt.Errorf("failed to get %s record: %w", r.table, err)
	}

	return rec, nil
}

func (r *recordStore) UpdateWorkflow(ctx context.Context, id string, expected approval.Status, st approval.State) (adjustment.Record, error) {
	q := GetQuerier(ctx, r.db)

	workflowJSON, err := json.Marshal(st)
	if err != nil {
		return adjustment.Record{}, fmt.Errorf("failed to marshal workflow: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, workflow = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, r.table)

	tag, err := q.Exec(ctx, query, st.Status, workflowJSON, id, expected)
	if err != nil {
		return adjustment.Record{}, fmt.Errorf("failed to update %s workflow: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		// Row missing or the status moved underneath the caller.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return adjustment.Record{}, getErr
		}
		return adjustment.Record{}, approval.ErrStatusConflict
	}

	return r.GetByID(ctx, id)
}

func (r *recordStore) SumAmountByStatus(ctx context.Context, employeeID string, from, to time.Time, statuses []approval.Status) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	if len(statuses) == 0 {
		return decimal.Zero, nil
	}

	statusStrs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrs = append(statusStrs, string(s))
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(amount), 0)
		FROM %s
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		  AND status = ANY($4)
	`, r.table)

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, from, to, statusStrs).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s amounts: %w", r.table, err)
	}

	return sum, nil
}
