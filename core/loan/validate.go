package loan

import (
	"github.com/shopspring/decimal"

	"fincalc/core/money"
	"fincalc/internal/errors"
)

// Limits bounds the loans Validate accepts.
type Limits struct {
	MaxPrincipal    decimal.Decimal
	MaxAnnualRate   decimal.Decimal
	MaxTenureMonths int
}

// DefaultLimits mirrors the defaults in internal/config.
func DefaultLimits() Limits {
	return Limits{
		MaxPrincipal:    decimal.NewFromInt(1_000_000_000_000),
		MaxAnnualRate:   decimal.NewFromInt(100),
		MaxTenureMonths: 600,
	}
}

// Validate rejects input Compute has no defined behavior for.
func (in Input) Validate(limits Limits) error {
	for _, f := range []struct {
		field, name string
		value       decimal.Decimal
	}{
		{"principal", "principal", in.Principal},
		{"annual_rate", "interest rate", in.AnnualRate},
		{"tenure", "tenure", in.Tenure},
	} {
		if !money.InRange(f.value) {
			return errors.Inputf("%s is out of range", f.name).WithField(f.field)
		}
	}
	if !in.Principal.IsPositive() {
		return errors.Input("principal must be greater than zero").WithField("principal")
	}
	if in.Principal.GreaterThan(limits.MaxPrincipal) {
		return errors.Inputf("principal must not exceed %s", limits.MaxPrincipal).WithField("principal")
	}
	if in.AnnualRate.IsNegative() {
		return errors.Input("interest rate must not be negative").WithField("annual_rate")
	}
	if in.AnnualRate.GreaterThan(limits.MaxAnnualRate) {
		return errors.Inputf("interest rate must not exceed %s%%", limits.MaxAnnualRate).WithField("annual_rate")
	}
	if in.Unit != Months && in.Unit != Years {
		return errors.Inputf("tenure unit must be %q or %q, got %q", Months, Years, in.Unit).WithField("unit")
	}
	if !in.Tenure.IsPositive() {
		return errors.Input("tenure must be greater than zero").WithField("tenure")
	}

	months := TenureMonths(in.Tenure, in.Unit)
	if months < 1 {
		return errors.Input("tenure must be at least one month").WithField("tenure")
	}
	if months > limits.MaxTenureMonths {
		return errors.Inputf("tenure must not exceed %d months", limits.MaxTenureMonths).WithField("tenure")
	}
	return nil
}
