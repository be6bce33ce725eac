package salary

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"fincalc/internal/errors"
)

// DefaultAllowances returns the empty allowance template.
func DefaultAllowances() []Component {
	return []Component{
		NewComponent("HRA", Percentage, decimal.Zero),
		NewComponent("Transport", Fixed, decimal.Zero),
		NewComponent("Medical", Fixed, decimal.Zero),
		NewComponent("Special", Fixed, decimal.Zero),
	}
}

// DefaultDeductions returns the deduction template. Only the provident
// fund carries a value.
func DefaultDeductions() []Component {
	return []Component{
		NewComponent("Provident Fund", Percentage, decimal.NewFromInt(12)),
		NewComponent("Income Tax", Fixed, decimal.Zero),
		NewComponent("Insurance", Fixed, decimal.Zero),
		NewComponent("Other", Fixed, decimal.Zero),
	}
}

// NewComponent builds a component whose ID is derived from its name.
func NewComponent(name string, kind Kind, value decimal.Decimal) Component {
	return Component{
		ID:    slug.Make(name),
		Name:  name,
		Value: value,
		Kind:  kind,
	}
}

// ParseComponent parses "Name:kind:value", e.g. "Housing:fixed:500" or
// "Tax:percentage:15". The kind may be abbreviated to "%".
func ParseComponent(s string) (Component, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Component{}, errors.Inputf("component %q must look like Name:kind:value", s)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Component{}, errors.Inputf("component %q has no name", s)
	}

	kind, err := ParseKind(parts[1])
	if err != nil {
		return Component{}, err
	}

	value, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return Component{}, errors.Parsing("component value must be a number", err).WithContext("component", s)
	}

	return NewComponent(name, kind, value), nil
}

// ParseKind accepts "fixed", "percentage" or "%".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed":
		return Fixed, nil
	case "percentage", "percent", "%":
		return Percentage, nil
	default:
		return "", errors.Inputf("unknown component kind %q (want fixed or percentage)", s).WithField("kind")
	}
}
