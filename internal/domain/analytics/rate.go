package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent returns round(num / den * 100), half up. A zero or negative
// denominator yields 0 instead of a division fault.
func Percent(num, den int) int {
	if den <= 0 {
		return 0
	}
	p := decimal.NewFromInt(int64(num)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(den))).
		Round(0)
	return int(p.IntPart())
}

// Average divides a money total by a count, 0 for an empty group.
func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}
