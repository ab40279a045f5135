// Package services holds the report builders. Builders are pure functions of
// the loaded snapshot and the reference time, and never touch storage.
package services

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percentOf returns part*100/total, or zero when total is zero.
func percentOf(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total)))
}

// exceedsPercent reports whether count > total*percent/100 without rounding.
func exceedsPercent(count, total, percent int) bool {
	return count*100 > total*percent
}

// belowPercent reports whether count < total*percent/100 without rounding.
func belowPercent(count, total, percent int) bool {
	return count*100 < total*percent
}
