package payroll

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/employee"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	changes   []employee.SalaryChange
	changeErr error
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListApprovedChangesInRange(ctx context.Context, employeeID string, from, to time.Time) ([]employee.SalaryChange, error) {
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	var out []employee.SalaryChange
	for _, c := range f.changes {
		if c.EmployeeID == employeeID && !c.EffectiveDate.Before(from) && !c.EffectiveDate.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetLatestApprovedChangeBefore(ctx context.Context, employeeID string, before time.Time) (employee.SalaryChange, error) {
	var latest *employee.SalaryChange
	for i, c := range f.changes {
		if c.EmployeeID != employeeID || !c.EffectiveDate.Before(before) {
			continue
		}
		if latest == nil || c.EffectiveDate.After(latest.EffectiveDate) {
			latest = &f.changes[i]
		}
	}
	if latest == nil {
		return employee.SalaryChange{}, employee.ErrSalaryChangeNotFound
	}
	return *latest, nil
}

type fakeLeaveRepo struct {
	requests   []leave.Request
	holidays   []leave.Holiday
	leaveErr   error
	holidayErr error
}

func (f *fakeLeaveRepo) ListApprovedUnpaidLeave(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	if f.leaveErr != nil {
		return nil, f.leaveErr
	}
	var out []leave.Request
	for _, r := range f.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) ListHolidays(ctx context.Context, from, to time.Time) ([]leave.Holiday, error) {
	if f.holidayErr != nil {
		return nil, f.holidayErr
	}
	return f.holidays, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testEmployee(joinDate time.Time) employee.Employee {
	jd := joinDate
	return employee.Employee{
		ID:          "emp-1",
		BaseSalary:  dec("9000"),
		TotalSalary: dec("14000"),
		JoinDate:    &jd,
	}
}

func newTestCalculator(empRepo *fakeEmployeeRepo, leaveRepo *fakeLeaveRepo) *Calculator {
	return NewCalculator(empRepo, leaveRepo, slog.Default())
}

func TestCalculate_FullMonthPaysFlat(t *testing.T) {
	emp := testEmployee(date(2023, time.January, 1))
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		&fakeLeaveRepo{},
	)

	// October has 31 days; flat pay must not become 14000/30*31.
	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)

	assert.True(t, dec("14000").Equal(result.ProratedTotalSalary), "got %s", result.ProratedTotalSalary)
	assert.True(t, dec("9000").Equal(result.ProratedBaseSalary))
	assert.Equal(t, 31, result.DaysInMonth)
	assert.Equal(t, 31, result.CalendarDaysWorked)
	assert.True(t, result.FullMonth())
	assert.False(t, result.Flags.JoinedMidMonth)
}

func TestCalculate_FullMonthFlatRegardlessOfMonthLength(t *testing.T) {
	emp := testEmployee(date(2023, time.January, 1))
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		&fakeLeaveRepo{},
	)

	for _, month := range []time.Month{time.February, time.April, time.October} {
		result, err := calc.Calculate(context.Background(), emp, 2023, month)
		require.NoError(t, err)
		assert.True(t, dec("14000").Equal(result.ProratedTotalSalary),
			"%s: got %s", month, result.ProratedTotalSalary)
	}
}

func TestCalculate_MidMonthJoinProrates(t *testing.T) {
	emp := testEmployee(date(2023, time.October, 16))
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		&fakeLeaveRepo{},
	)

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)

	// 16 inclusive calendar days: 14000/30*16 = 7466.67
	assert.Equal(t, "7466.67", result.ProratedTotalSalary.StringFixed(2))
	assert.Equal(t, "4800.00", result.ProratedBaseSalary.StringFixed(2))
	assert.Equal(t, 16, result.CalendarDaysWorked)
	assert.True(t, result.Flags.JoinedMidMonth)
	require.Len(t, result.Periods, 1)
	assert.Equal(t, 16, result.Periods[0].CalendarDays)
}

func TestCalculate_TerminationInMonth(t *testing.T) {
	emp := testEmployee(date(2023, time.January, 1))
	term := date(2023, time.October, 10)
	emp.TerminationDate = &term
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		&fakeLeaveRepo{},
	)

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)

	// 10 days: 14000/30*10 = 4666.67
	assert.Equal(t, "4666.67", result.ProratedTotalSalary.StringFixed(2))
	assert.Equal(t, 10, result.CalendarDaysWorked)
	assert.True(t, result.Flags.TerminatedInMonth)
}

func TestCalculate_MidMonthSalaryChangePartitions(t *testing.T) {
	emp := testEmployee(date(2023, time.January, 1))
	empRepo := &fakeEmployeeRepo{
		employees: map[string]employee.Employee{"emp-1": emp},
		changes: []employee.SalaryChange{{
			ID:             "chg-1",
			EmployeeID:     "emp-1",
			OldBaseSalary:  dec("9000"),
			NewBaseSalary:  dec("12000"),
			OldTotalSalary: dec("14000"),
			NewTotalSalary: dec("18000"),
			EffectiveDate:  date(2023, time.October, 16),
			Status:         employee.SalaryChangeStatusApproved,
		}},
	}
	calc := newTestCalculator(empRepo, &fakeLeaveRepo{})

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)

	require.Len(t, result.Periods, 2)
	assert.Equal(t, 15, result.Periods[0].CalendarDays)
	assert.Equal(t, 16, result.Periods[1].CalendarDays)
	assert.Equal(t, result.DaysInMonth, result.Periods[0].CalendarDays+result.Periods[1].CalendarDays)
	assert.True(t, dec("14000").Equal(result.Periods[0].TotalSalary))
	assert.True(t, dec("18000").Equal(result.Periods[1].TotalSalary))
	assert.True(t, result.Flags.SalaryChanged)

	// 14000/30*15 + 18000/30*16 = 7000 + 9600 = 16600
	assert.Equal(t, "16600.00", result.ProratedTotalSalary.StringFixed(2))
}

func TestCalculate_ChangeBeforeMonthSetsStartingSalary(t *testing.T) {
	emp := testEmployee(date(2023, time.January, 1))
	empRepo := &fakeEmployeeRepo{
		employees: map[string]employee.Employee{"emp-1": emp},
		changes: []employee.SalaryChange{{
			ID:             "chg-1",
			EmployeeID:     "emp-1",
			OldBaseSalary:  dec("9000"),
			NewBaseSalary:  dec("10000"),
			OldTotalSalary: dec("14000"),
			NewTotalSalary: dec("15000"),
			EffectiveDate:  date(2023, time.September, 1),
			Status:         employee.SalaryChangeStatusApproved,
		}},
	}
	calc := newTestCalculator(empRepo, &fakeLeaveRepo{})

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)

	assert.True(t, dec("15000").Equal(result.ProratedTotalSalary), "got %s", result.ProratedTotalSalary)
	assert.True(t, dec("10000").Equal(result.ProratedBaseSalary))
}

func TestCalculate_UnpaidLeaveDeducted(t *testing.T) {
	emp := testEmployee(date(2023, time.January, 1))
	method := leave.CompensationUnpaid
	leaveRepo := &fakeLeaveRepo{
		requests: []leave.Request{{
			ID:         "lv-1",
			EmployeeID: "emp-1",
			LeaveType:  leave.TypeUnpaid,
			StartDate:  date(2023, time.October, 9),
			EndDate:    date(2023, time.October, 11),
			Status:     leave.RequestStatusApproved,
		}, {
			ID:                 "lv-2",
			EmployeeID:         "emp-1",
			LeaveType:          leave.TypeEmergency,
			StartDate:          date(2023, time.October, 20),
			EndDate:            date(2023, time.October, 20),
			Status:             leave.RequestStatusApproved,
			EmergencyLeave:     true,
			CompensationMethod: &method,
		}},
	}
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		leaveRepo,
	)

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)

	assert.Equal(t, 4, result.UnpaidLeaveDays)
	assert.True(t, result.Flags.UnpaidLeave)
	// Single full-coverage period: weighted salary = 14000*31/31.
	// Prorated 14000/30*31 = 14466.67 minus 14000/30*4 = 1866.67 -> 12600.00
	assert.Equal(t, "12600.00", result.ProratedTotalSalary.StringFixed(2))
}

func TestCalculate_UnpaidLeaveSkipsHolidays(t *testing.T) {
	emp := testEmployee(date(2023, time.January, 1))
	leaveRepo := &fakeLeaveRepo{
		requests: []leave.Request{{
			ID:         "lv-1",
			EmployeeID: "emp-1",
			LeaveType:  leave.TypeUnpaid,
			StartDate:  date(2023, time.October, 9),
			EndDate:    date(2023, time.October, 11),
			Status:     leave.RequestStatusApproved,
		}},
		holidays: []leave.Holiday{{ID: "h-1", Name: "National Day", Date: date(2023, time.October, 10)}},
	}
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		leaveRepo,
	)

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)

	assert.Equal(t, 2, result.UnpaidLeaveDays)
}

func TestCalculate_LeaveLookupFailureDegrades(t *testing.T) {
	emp := testEmployee(date(2023, time.January, 1))
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		&fakeLeaveRepo{leaveErr: errors.New("leave service down")},
	)

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err, "leave lookup failure must not fail the calculation")
	assert.Equal(t, 0, result.UnpaidLeaveDays)
	assert.True(t, dec("14000").Equal(result.ProratedTotalSalary))
}

func TestCalculate_MissingJoinDateFails(t *testing.T) {
	emp := employee.Employee{ID: "emp-1", BaseSalary: dec("9000"), TotalSalary: dec("14000")}
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		&fakeLeaveRepo{},
	)

	_, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	assert.ErrorIs(t, err, employee.ErrMissingJoinDate)
}

func TestCalculate_InactiveMonthYieldsZero(t *testing.T) {
	emp := testEmployee(date(2024, time.March, 1))
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		&fakeLeaveRepo{},
	)

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)
	assert.True(t, result.ProratedTotalSalary.IsZero())
	assert.Equal(t, 0, result.CalendarDaysWorked)
	assert.Empty(t, result.Periods)
}

func TestCalculate_ProrataFactor(t *testing.T) {
	emp := testEmployee(date(2023, time.October, 16))
	calc := newTestCalculator(
		&fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		&fakeLeaveRepo{},
	)

	result, err := calc.Calculate(context.Background(), emp, 2023, time.October)
	require.NoError(t, err)

	want := decimal.NewFromInt(16).Div(decimal.NewFromInt(31)).Round(4)
	assert.True(t, want.Equal(result.ProrataFactor))
}
