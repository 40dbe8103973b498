package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) adjustment.OvertimeRepository {
	return &overtimeRepository{db: db}
}

const overtimeColumns = `
	id, employee_id, date, hours, is_rest_day_or_holiday, is_night_work,
	use_compensatory_day, amount, status, decided_by, decided_at,
	reject_reason, created_at, updated_at
`

func scanOvertime(row pgx.Row) (adjustment.Overtime, error) {
	var ot adjustment.Overtime
	err := row.Scan(
		&ot.ID, &ot.EmployeeID, &ot.Date, &ot.Hours, &ot.IsRestDayOrHoliday, &ot.IsNightWork,
		&ot.UseCompensatoryDay, &ot.Amount, &ot.Status, &ot.DecidedBy, &ot.DecidedAt,
		&ot.RejectReason, &ot.CreatedAt, &ot.UpdatedAt,
	)
	return ot, err
}

func (r *overtimeRepository) Create(ctx context.Context, ot adjustment.Overtime) (adjustment.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return adjustment.Overtime{}, fmt.Errorf("failed to generate overtime id: %w", err)
	}
	ot.ID = id.String()

	query := `
		INSERT INTO overtimes (
			id, employee_id, date, hours, is_rest_day_or_holiday, is_night_work,
			use_compensatory_day, amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		ot.ID, ot.EmployeeID, ot.Date, ot.Hours, ot.IsRestDayOrHoliday, ot.IsNightWork,
		ot.UseCompensatoryDay, ot.Amount, ot.Status,
	).Scan(&ot.CreatedAt, &ot.UpdatedAt)
	if err != nil {
		return adjustment.Overtime{}, fmt.Errorf("failed to create overtime: %w", err)
	}

	return ot, nil
}

func (r *overtimeRepository) GetByID(ctx context.Context, id string) (adjustment.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overtimeColumns + ` FROM overtimes WHERE id = $1`

	ot, err := scanOvertime(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return adjustment.Overtime{}, adjustment.ErrOvertimeNotFound
		}
		return adjustment.Overtime{}, fmt.Errorf("failed to get overtime: %w", err)
	}

	return ot, nil
}

func (r *overtimeRepository) UpdateStatus(ctx context.Context, id string, expected, next adjustment.OvertimeStatus, actorID string, reason *string) (adjustment.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtimes
		SET status = $1, decided_by = $2, decided_at = NOW(), reject_reason = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
		RETURNING ` + overtimeColumns

	ot, err := scanOvertime(q.QueryRow(ctx, query, next, actorID, reason, id, expected))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return adjustment.Overtime{}, getErr
			}
			return adjustment.Overtime{}, adjustment.ErrOvertimeAlreadyDecided
		}
		return adjustment.Overtime{}, fmt.Errorf("failed to update overtime status: %w", err)
	}

	return ot, nil
}

func (r *overtimeRepository) SumApprovedAmount(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM overtimes
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		  AND status = $4
	`

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, from, to, adjustment.OvertimeStatusApproved).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum approved overtime: %w", err)
	}

	return sum, nil
}
