package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/leave"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) ListApprovedUnpaidLeave(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, status,
			   emergency_leave, compensation_method
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND start_date <= $4
		  AND end_date >= $3
		  AND (leave_type = $5 OR (emergency_leave = true AND compensation_method = $6))
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, leave.RequestStatusApproved, from, to,
		leave.TypeUnpaid, leave.CompensationUnpaid)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate, &req.Status,
			&req.EmergencyLeave, &req.CompensationMethod,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func (r *leaveRepository) ListHolidays(ctx context.Context, from, to time.Time) ([]leave.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, date
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var h leave.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Date); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}
