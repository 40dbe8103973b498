package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestHourlyRate(t *testing.T) {
	// 7200 / 30 / 8 = 30
	assert.True(t, dec("30").Equal(HourlyRate(dec("7200"))))
}

func TestDailyRate_AlwaysDividesBy30(t *testing.T) {
	// Statutory rule, not a calendar fact: 9000/30 = 300 whatever the month.
	assert.True(t, dec("300").Equal(DailyRate(dec("9000"))))
}

func TestOvertimePay_CapsAtTwoHours(t *testing.T) {
	base := dec("9600") // hourly = 40

	two := OvertimePay(base, dec("2"), false, false, false)
	five := OvertimePay(base, dec("5"), false, false, false)

	assert.True(t, two.Equal(five), "hours beyond 2 must not increase pay")
	// 40 * 2 * 1.25 = 100
	assert.True(t, dec("100").Equal(two))
}

func TestOvertimePay_Multipliers(t *testing.T) {
	base := dec("9600") // hourly = 40

	cases := []struct {
		name        string
		restHoliday bool
		night       bool
		want        string
	}{
		{"regular day", false, false, "50"},     // 40 * 1 * 1.25
		{"rest day", true, false, "60"},         // 40 * 1 * 1.5
		{"night work", false, true, "60"},       // 40 * 1 * 1.5
		{"rest day at night", true, true, "60"}, // still 1.5, not stacked
	}

	for _, c := range cases {
		got := OvertimePay(base, dec("1"), c.restHoliday, c.night, false)
		assert.True(t, dec(c.want).Equal(got), "%s: got %s want %s", c.name, got, c.want)
	}
}

func TestOvertimePay_CompensatoryDayPaysNothing(t *testing.T) {
	got := OvertimePay(dec("9600"), dec("2"), true, true, true)
	assert.True(t, got.IsZero())
}

func TestOvertimePay_Rounding(t *testing.T) {
	// 10000/30/8 = 41.666..., * 2 * 1.25 = 104.1666... -> 104.17
	got := OvertimePay(dec("10000"), dec("2"), false, false, false)
	assert.Equal(t, "104.17", got.StringFixed(2))
	assert.Equal(t, int32(-2), got.Exponent())
}

func TestAbsenceDeduction(t *testing.T) {
	// 9000/30 * 3 = 900
	assert.True(t, dec("900").Equal(AbsenceDeduction(dec("9000"), 3)))
}

func TestNetPayroll(t *testing.T) {
	got := NetPayroll(dec("14000"), dec("100"), dec("250"), dec("500"), dec("300"), dec("0"))
	assert.True(t, dec("14550").Equal(got))
}

func TestNetPayroll_NeverNegative(t *testing.T) {
	got := NetPayroll(dec("1000"), dec("0"), dec("0"), dec("0"), dec("999999"), dec("5000"))
	assert.True(t, got.IsZero())
}
