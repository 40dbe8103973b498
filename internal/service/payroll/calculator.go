package payroll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/employee"
	"github.com/gulfline-hr/payroll-backend-go/internal/domain/leave"
	payrolldomain "github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Calculator prorates an employee's salary over a calendar month. Full months
// are paid flat; partial months follow the statutory /30 rule per salary
// sub-period; approved unpaid leave is netted out afterwards.
type Calculator struct {
	employeeRepo employee.Repository
	leaveRepo    leave.Repository
	logger       *slog.Logger
}

func NewCalculator(employeeRepo employee.Repository, leaveRepo leave.Repository, logger *slog.Logger) *Calculator {
	return &Calculator{
		employeeRepo: employeeRepo,
		leaveRepo:    leaveRepo,
		logger:       logger,
	}
}

// Calculate prorates the employee's salary for the given month. A missing
// join date is a hard error; failed leave or holiday lookups are logged and
// treated as no unpaid days.
func (c *Calculator) Calculate(ctx context.Context, emp employee.Employee, year int, month time.Month) (payrolldomain.CalculationResult, error) {
	if emp.JoinDate == nil {
		return payrolldomain.CalculationResult{}, employee.ErrMissingJoinDate
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	result := payrolldomain.CalculationResult{
		OriginalBaseSalary:  emp.BaseSalary,
		OriginalTotalSalary: emp.TotalSalary,
		DaysInMonth:         daysInMonth,
		ProrataFactor:       decimal.Zero,
	}

	windowStart, windowEnd, active := activeWindow(emp, monthStart, monthEnd)
	if !active {
		// Not employed at any point in the month.
		result.ProratedBaseSalary = decimal.Zero
		result.ProratedTotalSalary = decimal.Zero
		return result, nil
	}

	result.Flags.JoinedMidMonth = emp.JoinDate.After(monthStart)
	result.Flags.TerminatedInMonth = emp.TerminationDate != nil && emp.TerminationDate.Before(monthEnd)

	changes, err := c.employeeRepo.ListApprovedChangesInRange(ctx, emp.ID, monthStart, monthEnd)
	if err != nil {
		return payrolldomain.CalculationResult{}, err
	}

	startBase, startTotal, err := c.salaryAtMonthStart(ctx, emp, monthStart, changes)
	if err != nil {
		return payrolldomain.CalculationResult{}, err
	}
	periods := partition(windowStart, windowEnd, startBase, startTotal, changes)
	result.Periods = periods
	result.Flags.SalaryChanged = len(periods) > 1

	daysWorked := 0
	for _, p := range periods {
		daysWorked += p.CalendarDays
	}
	result.CalendarDaysWorked = daysWorked
	result.ProrataFactor = decimal.NewFromInt(int64(daysWorked)).
		Div(decimal.NewFromInt(int64(daysInMonth))).Round(4)

	unpaidDays := c.countUnpaidDays(ctx, emp.ID, windowStart, windowEnd, monthStart, monthEnd)
	result.UnpaidLeaveDays = unpaidDays
	result.Flags.UnpaidLeave = unpaidDays > 0

	fullMonth := windowStart.Equal(monthStart) && windowEnd.Equal(monthEnd) &&
		len(periods) == 1 && unpaidDays == 0

	var proratedBase, proratedTotal decimal.Decimal
	if fullMonth {
		// A full calendar month is paid flat, never divided by day count.
		proratedBase = periods[0].BaseSalary
		proratedTotal = periods[0].TotalSalary
	} else {
		for _, p := range periods {
			days := decimal.NewFromInt(int64(p.CalendarDays))
			proratedBase = proratedBase.Add(DailyRate(p.BaseSalary).Mul(days))
			proratedTotal = proratedTotal.Add(DailyRate(p.TotalSalary).Mul(days))
		}

		if unpaidDays > 0 && proratedTotal.IsPositive() {
			// Weighted average salary across sub-periods, weighted against
			// the total days in the month. The deduction is split between
			// base and total in the ratio the prorated base bears to the
			// prorated total.
			var weighted decimal.Decimal
			for _, p := range periods {
				weighted = weighted.Add(p.TotalSalary.Mul(decimal.NewFromInt(int64(p.CalendarDays))))
			}
			weighted = weighted.Div(decimal.NewFromInt(int64(daysInMonth)))

			deduction := DailyRate(weighted).Mul(decimal.NewFromInt(int64(unpaidDays)))
			ratio := proratedBase.Div(proratedTotal)
			proratedBase = proratedBase.Sub(deduction.Mul(ratio))
			proratedTotal = proratedTotal.Sub(deduction)
		}
	}

	if proratedBase.IsNegative() {
		proratedBase = decimal.Zero
	}
	if proratedTotal.IsNegative() {
		proratedTotal = decimal.Zero
	}
	result.ProratedBaseSalary = proratedBase.Round(2)
	result.ProratedTotalSalary = proratedTotal.Round(2)

	return result, nil
}

// activeWindow clips the employee's employment to the month. Both bounds are
// inclusive.
func activeWindow(emp employee.Employee, monthStart, monthEnd time.Time) (start, end time.Time, active bool) {
	start = monthStart
	if emp.JoinDate.After(monthStart) {
		start = dateOnly(*emp.JoinDate)
	}

	end = monthEnd
	if emp.TerminationDate != nil && emp.TerminationDate.Before(monthEnd) {
		end = dateOnly(*emp.TerminationDate)
	}

	if start.After(monthEnd) || end.Before(monthStart) || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// salaryAtMonthStart resolves the salary in effect on the first of the month:
// the most recent approved change effective before the month, else (when
// changes exist inside the month but none before it) the first in-month
// change's recorded old values, else the employee's current salary.
func (c *Calculator) salaryAtMonthStart(ctx context.Context, emp employee.Employee, monthStart time.Time, inMonth []employee.SalaryChange) (base, total decimal.Decimal, err error) {
	prior, err := c.employeeRepo.GetLatestApprovedChangeBefore(ctx, emp.ID, monthStart)
	if err == nil {
		return prior.NewBaseSalary, prior.NewTotalSalary, nil
	}
	if !errors.Is(err, employee.ErrSalaryChangeNotFound) {
		return decimal.Zero, decimal.Zero, err
	}

	if len(inMonth) > 0 {
		return inMonth[0].OldBaseSalary, inMonth[0].OldTotalSalary, nil
	}

	return emp.BaseSalary, emp.TotalSalary, nil
}

// partition splits the active window into contiguous sub-periods at each
// approved salary change effective date. Changes effective on or before the
// window start just replace the starting salary.
func partition(windowStart, windowEnd time.Time, startBase, startTotal decimal.Decimal, changes []employee.SalaryChange) []payrolldomain.SalaryPeriod {
	base, total := startBase, startTotal

	var boundaries []employee.SalaryChange
	for _, ch := range changes {
		eff := dateOnly(ch.EffectiveDate)
		if !eff.After(windowStart) {
			base, total = ch.NewBaseSalary, ch.NewTotalSalary
			continue
		}
		if eff.After(windowEnd) {
			continue
		}
		boundaries = append(boundaries, ch)
	}

	var periods []payrolldomain.SalaryPeriod
	cursor := windowStart
	for _, ch := range boundaries {
		eff := dateOnly(ch.EffectiveDate)
		prevEnd := eff.AddDate(0, 0, -1)
		periods = append(periods, payrolldomain.SalaryPeriod{
			Start:        cursor,
			End:          prevEnd,
			BaseSalary:   base,
			TotalSalary:  total,
			CalendarDays: inclusiveDays(cursor, prevEnd),
		})
		cursor = eff
		base, total = ch.NewBaseSalary, ch.NewTotalSalary
	}
	periods = append(periods, payrolldomain.SalaryPeriod{
		Start:        cursor,
		End:          windowEnd,
		BaseSalary:   base,
		TotalSalary:  total,
		CalendarDays: inclusiveDays(cursor, windowEnd),
	})

	return periods
}

// countUnpaidDays counts calendar days inside the active window covered by an
// approved unpaid leave, skipping public holidays. Lookup failures degrade to
// zero days.
func (c *Calculator) countUnpaidDays(ctx context.Context, employeeID string, windowStart, windowEnd, monthStart, monthEnd time.Time) int {
	requests, err := c.leaveRepo.ListApprovedUnpaidLeave(ctx, employeeID, monthStart, monthEnd)
	if err != nil {
		depErr := &payrolldomain.DependencyError{Source: "leave", Err: err}
		c.logger.Warn("unpaid leave lookup failed, ignoring leave for this calculation",
			"employee_id", employeeID, "error", depErr)
		return 0
	}
	if len(requests) == 0 {
		return 0
	}

	holidaySet := make(map[string]bool)
	holidays, err := c.leaveRepo.ListHolidays(ctx, monthStart, monthEnd)
	if err != nil {
		depErr := &payrolldomain.DependencyError{Source: "holiday", Err: err}
		c.logger.Warn("holiday lookup failed, treating month as holiday-free",
			"employee_id", employeeID, "error", depErr)
	} else {
		for _, h := range holidays {
			holidaySet[dateOnly(h.Date).Format("2006-01-02")] = true
		}
	}

	count := 0
	for day := windowStart; !day.After(windowEnd); day = day.AddDate(0, 0, 1) {
		if holidaySet[day.Format("2006-01-02")] {
			continue
		}
		for _, req := range requests {
			if !req.Unpaid() {
				continue
			}
			if !day.Before(dateOnly(req.StartDate)) && !day.After(dateOnly(req.EndDate)) {
				count++
				break
			}
		}
	}
	return count
}

func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
