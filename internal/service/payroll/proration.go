package payroll

import (
	"github.com/shopspring/decimal"
)

// Statutory proration rules. The /30 divisor is fixed by regulation and does
// not track the calendar length of the target month.
var (
	thirty           = decimal.NewFromInt(30)
	eight            = decimal.NewFromInt(8)
	maxOvertimeHours = decimal.NewFromInt(2)

	restOrNightMultiplier = decimal.RequireFromString("1.5")
	regularMultiplier     = decimal.RequireFromString("1.25")
)

// HourlyRate derives the statutory hourly rate from a monthly base salary.
func HourlyRate(baseSalary decimal.Decimal) decimal.Decimal {
	return baseSalary.Div(thirty).Div(eight)
}

// DailyRate derives the statutory daily rate from a monthly amount. Always
// divides by 30 regardless of the actual month length.
func DailyRate(monthlyAmount decimal.Decimal) decimal.Decimal {
	return monthlyAmount.Div(thirty)
}

// OvertimePay computes pay for one day of overtime. Hours are capped at 2 per
// day. Rest-day, holiday, and night work pay 1.5x the hourly rate, everything
// else 1.25x. Choosing a compensatory day off instead of payment yields 0.
func OvertimePay(baseSalary, hours decimal.Decimal, isRestDayOrHoliday, isNightWork, useCompensatoryDay bool) decimal.Decimal {
	if useCompensatoryDay {
		return decimal.Zero
	}

	if hours.GreaterThan(maxOvertimeHours) {
		hours = maxOvertimeHours
	}

	multiplier := regularMultiplier
	if isRestDayOrHoliday || isNightWork {
		multiplier = restOrNightMultiplier
	}

	return HourlyRate(baseSalary).Mul(hours).Mul(multiplier).Round(2)
}

// AbsenceDeduction is the daily rate times the number of absent days.
func AbsenceDeduction(monthlyAmount decimal.Decimal, days int) decimal.Decimal {
	return DailyRate(monthlyAmount).Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// NetPayroll nets the prorated total salary against adjustments. The result
// is clamped at zero and rounded to 2 decimals.
func NetPayroll(totalSalary, overtime, reimbursements, bonuses, deductions, tax decimal.Decimal) decimal.Decimal {
	net := totalSalary.
		Add(overtime).
		Add(reimbursements).
		Add(bonuses).
		Sub(deductions).
		Sub(tax)

	if net.IsNegative() {
		return decimal.Zero
	}
	return net.Round(2)
}
