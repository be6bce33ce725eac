// Package salary turns a gross salary plus allowances and deductions into
// monthly and yearly net pay.
//
// Percentage allowances are taken of the monthly gross. Percentage
// deductions are taken of the monthly gross plus all allowances.
package salary

import (
	"github.com/shopspring/decimal"

	"fincalc/core/money"
)

// Kind says how a component's Value is interpreted.
type Kind string

const (
	// Fixed components add or remove Value per month
	Fixed Kind = "fixed"

	// Percentage components add or remove Value percent of their base
	Percentage Kind = "percentage"
)

// Period is the period a gross salary is quoted for.
type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Component is one allowance or deduction line.
type Component struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Kind  Kind            `json:"kind"`
}

// Amount resolves the component against base.
func (c Component) Amount(base decimal.Decimal) decimal.Decimal {
	if c.Kind == Percentage {
		return money.PercentOf(base, c.Value)
	}
	return c.Value
}

// Input describes a salary. Call Validate before Compute.
type Input struct {
	Gross      decimal.Decimal `json:"gross"`
	Period     Period          `json:"period"`
	Allowances []Component     `json:"allowances"`
	Deductions []Component     `json:"deductions"`
}

// ComponentShare is a resolved component and its share of its base.
type ComponentShare struct {
	Name       string          `json:"name"`
	Kind       Kind            `json:"kind"`
	Value      decimal.Decimal `json:"value"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Breakdown lists the components that contributed a non-zero amount.
type Breakdown struct {
	Allowances []ComponentShare `json:"allowances"`
	Deductions []ComponentShare `json:"deductions"`
}

// Result is the outcome of Compute. Amounts are monthly and rounded to
// cents unless named otherwise.
type Result struct {
	MonthlyGross     decimal.Decimal `json:"monthly_gross"`
	TotalAllowances  decimal.Decimal `json:"total_allowances"`
	BeforeDeductions decimal.Decimal `json:"before_deductions"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	MonthlyNet       decimal.Decimal `json:"monthly_net"`
	YearlyNet        decimal.Decimal `json:"yearly_net"`
	Breakdown        Breakdown       `json:"breakdown"`
}

// MonthlyGross converts gross to a monthly figure.
func MonthlyGross(gross decimal.Decimal, period Period) decimal.Decimal {
	if period == Yearly {
		return gross.Div(money.Twelve)
	}
	return gross
}

// Compute applies allowances, then deductions, to the monthly gross.
// in must have passed Validate.
func Compute(in Input) Result {
	monthlyGross := money.Working(MonthlyGross(in.Gross, in.Period))

	allowances, totalAllowances := apply(in.Allowances, monthlyGross)
	beforeDeductions := monthlyGross.Add(totalAllowances)
	deductions, totalDeductions := apply(in.Deductions, beforeDeductions)

	net := beforeDeductions.Sub(totalDeductions)

	return Result{
		MonthlyGross:     money.Round(monthlyGross),
		TotalAllowances:  money.Round(totalAllowances),
		BeforeDeductions: money.Round(beforeDeductions),
		TotalDeductions:  money.Round(totalDeductions),
		MonthlyNet:       money.Round(net),
		YearlyNet:        money.Round(net.Mul(money.Twelve)),
		Breakdown: Breakdown{
			Allowances: allowances,
			Deductions: deductions,
		},
	}
}

// apply resolves components against base, skipping those with no positive
// value, and returns the shares with their unrounded total.
func apply(components []Component, base decimal.Decimal) ([]ComponentShare, decimal.Decimal) {
	shares := make([]ComponentShare, 0, len(components))
	total := decimal.Zero

	for _, c := range components {
		if !c.Value.IsPositive() {
			continue
		}
		amount := money.Working(c.Amount(base))
		total = total.Add(amount)
		shares = append(shares, ComponentShare{
			Name:       c.Name,
			Kind:       c.Kind,
			Value:      c.Value,
			Amount:     money.Round(amount),
			Percentage: money.Round(money.Percent(amount, base)),
		})
	}
	return shares, total
}
