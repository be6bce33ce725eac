// Package money holds the rounding and percentage rules shared by the
// calculators. All amounts are decimal.Decimal; rounding to cents happens
// only when a value is reported.
package money

import "github.com/shopspring/decimal"

const (
	// Places is the number of fractional digits of every reported amount.
	Places = 2

	// WorkingPlaces is the precision intermediate values are kept at so
	// repeated multiplication does not grow the coefficient without bound.
	// Loan balances compound their rounding error for up to 600 months,
	// so it stays far below the reported cents.
	WorkingPlaces = 28

	// MaxInputScale is the most fractional digits an input may carry.
	MaxInputScale = 12

	// MaxIntegerDigits bounds the integer part of an input.
	MaxIntegerDigits = 15

	// maxCoefficientBits admits every coefficient of MaxIntegerDigits +
	// MaxInputScale digits.
	maxCoefficientBits = 90
)

var (
	// Hundred converts between fractions and percentages.
	Hundred = decimal.NewFromInt(100)

	// Twelve converts between monthly and yearly figures.
	Twelve = decimal.NewFromInt(12)

	// MaxAmount is the exclusive upper bound on incomes and salaries.
	MaxAmount = decimal.New(1, MaxIntegerDigits)
)

// Round rounds d to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Working trims d to the working precision.
func Working(d decimal.Decimal) decimal.Decimal {
	return d.Round(WorkingPlaces)
}

// Percent returns part / whole × 100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(Hundred)
}

// PercentOf returns base × rate / 100.
func PercentOf(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(Hundred)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// InRange reports whether d has at most MaxInputScale fractional digits
// and MaxIntegerDigits integer digits. It reads only the coefficient and
// exponent, so it is safe to call on untrusted input before any
// arithmetic or comparison, both of which rescale.
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -MaxInputScale || exp > MaxIntegerDigits {
		return false
	}
	if d.Coefficient().BitLen() > maxCoefficientBits {
		return false
	}
	return d.NumDigits()+int(exp) <= MaxIntegerDigits
}
