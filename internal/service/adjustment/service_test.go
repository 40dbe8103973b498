package adjustment

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	adjdomain "github.com/gulfline-hr/payroll-backend-go/internal/domain/adjustment"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/approval"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/employee"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) ListApprovedChangesInRange(ctx context.Context, employeeID string, from, to time.Time) ([]employee.SalaryChange, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) GetLatestApprovedChangeBefore(ctx context.Context, employeeID string, before time.Time) (employee.SalaryChange, error) {
	return employee.SalaryChange{}, employee.ErrSalaryChangeNotFound
}

type fakeRecordRepo struct {
	records map[string]adjdomain.Record
	nextID  int
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]adjdomain.Record)}
}

func (f *fakeRecordRepo) Create(ctx context.Context, rec adjdomain.Record) (adjdomain.Record, error) {
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeRecordRepo) GetByID(ctx context.Context, id string) (adjdomain.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return adjdomain.Record{}, adjdomain.ErrBonusNotFound
	}
	return rec, nil
}

func (f *fakeRecordRepo) UpdateWorkflow(ctx context.Context, id string, expected approval.Status, st approval.State) (adjdomain.Record, error) {
	rec := f.records[id]
	rec.Workflow = st
	f.records[id] = rec
	return rec, nil
}

func (f *fakeRecordRepo) SumAmountByStatus(ctx context.Context, employeeID string, from, to time.Time, statuses []approval.Status) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeOvertimeRepo struct {
	records map[string]adjdomain.Overtime
	nextID  int
}

func newFakeOvertimeRepo() *fakeOvertimeRepo {
	return &fakeOvertimeRepo{records: make(map[string]adjdomain.Overtime)}
}

func (f *fakeOvertimeRepo) Create(ctx context.Context, ot adjdomain.Overtime) (adjdomain.Overtime, error) {
	f.nextID++
	ot.ID = fmt.Sprintf("ot-%d", f.nextID)
	f.records[ot.ID] = ot
	return ot, nil
}

func (f *fakeOvertimeRepo) GetByID(ctx context.Context, id string) (adjdomain.Overtime, error) {
	ot, ok := f.records[id]
	if !ok {
		return adjdomain.Overtime{}, adjdomain.ErrOvertimeNotFound
	}
	return ot, nil
}

func (f *fakeOvertimeRepo) UpdateStatus(ctx context.Context, id string, expected, next adjdomain.OvertimeStatus, actorID string, reason *string) (adjdomain.Overtime, error) {
	ot := f.records[id]
	ot.Status = next
	f.records[id] = ot
	return ot, nil
}

func (f *fakeOvertimeRepo) SumApprovedAmount(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newTestService(employees *fakeEmployeeRepo) (*Service, *fakeRecordRepo, *fakeOvertimeRepo) {
	bonuses := newFakeRecordRepo()
	overtimes := newFakeOvertimeRepo()
	svc := NewService(
		bonuses,
		newFakeRecordRepo(),
		newFakeRecordRepo(),
		overtimes,
		employees,
		slog.Default(),
	)
	return svc, bonuses, overtimes
}

func TestCreateRecord_StartsPending(t *testing.T) {
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", BaseSalary: decimal.RequireFromString("9000")},
	}}
	svc, bonuses, _ := newTestService(employees)

	resp, err := svc.CreateRecord(context.Background(), approval.KindBonus, adjdomain.CreateRecordRequest{
		EmployeeID: "emp-1",
		Amount:     decimal.RequireFromString("500"),
		Date:       "2023-10-05",
	})
	require.NoError(t, err)

	assert.Equal(t, approval.StatusPending, resp.Status)
	stored := bonuses.records[resp.ID]
	assert.Equal(t, "2023-10-05", stored.Date.Format("2006-01-02"))
}

func TestCreateRecord_Validates(t *testing.T) {
	svc, _, _ := newTestService(&fakeEmployeeRepo{employees: map[string]employee.Employee{}})

	_, err := svc.CreateRecord(context.Background(), approval.KindBonus, adjdomain.CreateRecordRequest{
		EmployeeID: "",
		Amount:     decimal.RequireFromString("-1"),
		Date:       "not-a-date",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "employee_id")
	assert.Contains(t, m, "amount")
	assert.Contains(t, m, "date")
}

func TestCreateRecord_UnknownKind(t *testing.T) {
	svc, _, _ := newTestService(&fakeEmployeeRepo{employees: map[string]employee.Employee{}})

	_, err := svc.CreateRecord(context.Background(), approval.KindOvertime, adjdomain.CreateRecordRequest{
		EmployeeID: "emp-1",
		Amount:     decimal.RequireFromString("500"),
		Date:       "2023-10-05",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "kind", verrs[0].Field)
}

func TestCreateOvertime_AmountFixedAtCreation(t *testing.T) {
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", BaseSalary: decimal.RequireFromString("9600")},
	}}
	svc, _, overtimes := newTestService(employees)

	resp, err := svc.CreateOvertime(context.Background(), adjdomain.CreateOvertimeRequest{
		EmployeeID: "emp-1",
		Date:       "2023-10-12",
		Hours:      decimal.RequireFromString("2"),
	})
	require.NoError(t, err)

	// hourly = 9600/30/8 = 40; 40 * 2 * 1.25 = 100
	assert.Equal(t, "100.00", resp.Amount.StringFixed(2))
	assert.Equal(t, adjdomain.OvertimeStatusPending, resp.Status)

	// A later salary change must not reprice the stored record.
	emp := employees.employees["emp-1"]
	emp.BaseSalary = decimal.RequireFromString("19200")
	employees.employees["emp-1"] = emp

	stored, err := svc.GetOvertime(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", stored.Amount.StringFixed(2))
	assert.True(t, overtimes.records[resp.ID].Amount.Equal(decimal.RequireFromString("100")))
}

func TestCreateOvertime_UnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService(&fakeEmployeeRepo{employees: map[string]employee.Employee{}})

	_, err := svc.CreateOvertime(context.Background(), adjdomain.CreateOvertimeRequest{
		EmployeeID: "ghost",
		Date:       "2023-10-12",
		Hours:      decimal.RequireFromString("1"),
	})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
