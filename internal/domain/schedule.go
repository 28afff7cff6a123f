package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	minRate = decimal.Zero
	maxRate = decimal.NewFromInt(100)
)

// ComputeTerms calculates the total repayable amount and the monthly
// installment for a simple-interest loan. Interest is a flat percentage of
// the principal, not compounding.
func ComputeTerms(principal, ratePercent decimal.Decimal, durationMonths int) (total, monthly decimal.Decimal, err error) {
	if principal.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: principal must not be negative", ErrInvalidTerms)
	}
	if ratePercent.LessThan(minRate) || ratePercent.GreaterThan(maxRate) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: interest rate must be between 0 and 100", ErrInvalidTerms)
	}
	if durationMonths < 1 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: duration must be at least one month", ErrInvalidTerms)
	}

	interest := principal.Mul(ratePercent).Div(decimal.NewFromInt(100))
	total = principal.Add(interest)
	monthly = total.Div(decimal.NewFromInt(int64(durationMonths)))

	return total, monthly, nil
}

// AdvanceOneMonth returns the same day-of-month one calendar month later.
// When the target month is shorter, the day is clamped to its last valid
// day (Jan 31 -> Feb 28/29, Mar 31 -> Apr 30). time.AddDate would roll
// over into the month after next, which is wrong for billing dates.
func AdvanceOneMonth(t time.Time) time.Time {
	year, month, day := t.Date()

	nextMonth := month + 1
	if nextMonth > time.December {
		nextMonth = time.January
		year++
	}

	if last := daysInMonth(year, nextMonth); day > last {
		day = last
	}

	hour, min, sec := t.Clock()
	return time.Date(year, nextMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month. Day zero of
// the following month normalizes to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
