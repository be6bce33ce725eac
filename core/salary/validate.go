package salary

import (
	"fmt"

	"fincalc/core/money"
	"fincalc/internal/errors"
)

// Validate rejects input Compute has no defined behavior for.
func (in Input) Validate() error {
	if !money.InRange(in.Gross) {
		return errors.Input("gross salary is out of range").WithField("gross")
	}
	if !in.Gross.IsPositive() {
		return errors.Input("gross salary must be greater than zero").WithField("gross")
	}
	if in.Gross.GreaterThanOrEqual(money.MaxAmount) {
		return errors.Inputf("gross salary must be less than %s", money.MaxAmount).WithField("gross")
	}
	if in.Period != Monthly && in.Period != Yearly {
		return errors.Inputf("period must be %q or %q, got %q", Monthly, Yearly, in.Period).WithField("period")
	}
	if err := validateComponents("allowances", in.Allowances); err != nil {
		return err
	}
	return validateComponents("deductions", in.Deductions)
}

func validateComponents(field string, components []Component) error {
	for i, c := range components {
		at := fmt.Sprintf("%s[%d]", field, i)
		if c.Kind != Fixed && c.Kind != Percentage {
			return errors.Inputf("%s: unknown kind %q", describe(c, i), c.Kind).WithField(at)
		}
		if !money.InRange(c.Value) {
			return errors.Inputf("%s: value is out of range", describe(c, i)).WithField(at)
		}
		if c.Value.IsNegative() {
			return errors.Inputf("%s: value must not be negative", describe(c, i)).WithField(at)
		}
		if c.Kind == Percentage && c.Value.GreaterThan(money.Hundred) {
			return errors.Inputf("%s: percentage must not exceed 100", describe(c, i)).WithField(at)
		}
	}
	return nil
}

func describe(c Component, i int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("component %d", i+1)
}
