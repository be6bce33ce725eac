// Package tax estimates income tax against progressive bracket tables.
//
// Only the slice of taxable income inside a bracket is taxed at that
// bracket's rate; income is never taxed wholesale at the top marginal rate.
package tax

import (
	"github.com/shopspring/decimal"

	"fincalc/core/money"
	"fincalc/internal/errors"
)

// BracketShare is the tax owed inside one bracket.
type BracketShare struct {
	Label         string              `json:"label"`
	Min           decimal.Decimal     `json:"min"`
	Max           decimal.NullDecimal `json:"max"`
	Rate          decimal.Decimal     `json:"rate"`
	TaxableAmount decimal.Decimal     `json:"taxable_amount"`
	Tax           decimal.Decimal     `json:"tax"`
}

// Result is the outcome of Compute. Amounts are rounded to cents and rates
// are percentages.
type Result struct {
	Table           string          `json:"table"`
	Currency        string          `json:"currency"`
	GrossIncome     decimal.Decimal `json:"gross_income"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	EffectiveRate   decimal.Decimal `json:"effective_rate"`
	MarginalRate    decimal.Decimal `json:"marginal_rate"`
	NetIncome       decimal.Decimal `json:"net_income"`
	Breakdown       []BracketShare  `json:"breakdown"`
}

// Compute applies cfg's brackets to annualIncome after subtracting
// extraDeductions and the table's standard deduction.
func Compute(annualIncome, extraDeductions decimal.Decimal, cfg Config) Result {
	deductions := extraDeductions.Add(cfg.StandardDeduction)
	taxable := money.NonNegative(annualIncome.Sub(deductions))

	total := decimal.Zero
	marginal := decimal.Zero
	breakdown := make([]BracketShare, 0, len(cfg.Brackets))

	for _, b := range cfg.Brackets {
		if !taxable.GreaterThan(b.Min) {
			continue
		}

		upper := taxable
		if !b.Unbounded() && b.Max.Decimal.LessThan(taxable) {
			upper = b.Max.Decimal
		}
		amount := upper.Sub(b.Min)
		owed := money.PercentOf(amount, b.Rate)
		total = total.Add(owed)

		if amount.IsPositive() {
			marginal = b.Rate
			breakdown = append(breakdown, BracketShare{
				Label:         Label(b, cfg.Currency),
				Min:           b.Min,
				Max:           b.Max,
				Rate:          b.Rate,
				TaxableAmount: money.Round(amount),
				Tax:           money.Round(owed),
			})
		}
	}

	return Result{
		Table:           cfg.ID,
		Currency:        cfg.Currency,
		GrossIncome:     money.Round(annualIncome),
		TotalDeductions: money.Round(deductions),
		TaxableIncome:   money.Round(taxable),
		TotalTax:        money.Round(total),
		EffectiveRate:   money.Round(money.Percent(total, taxable)),
		MarginalRate:    marginal,
		NetIncome:       money.Round(annualIncome.Sub(total)),
		Breakdown:       breakdown,
	}
}

// Label renders a bracket range such as "$11,600 - $47,150" or
// "Above $609,350".
func Label(b Bracket, currency string) string {
	if b.Unbounded() {
		return "Above " + money.FormatWhole(b.Min, currency)
	}
	return money.FormatWhole(b.Min, currency) + " - " + money.FormatWhole(b.Max.Decimal, currency)
}

// ValidateAmounts rejects negative or out-of-range income or deductions.
func ValidateAmounts(annualIncome, extraDeductions decimal.Decimal) error {
	if !money.InRange(annualIncome) {
		return errors.Input("annual income is out of range").WithField("income")
	}
	if !money.InRange(extraDeductions) {
		return errors.Input("deductions are out of range").WithField("deductions")
	}
	if annualIncome.IsNegative() {
		return errors.Input("annual income must not be negative").WithField("income")
	}
	if extraDeductions.IsNegative() {
		return errors.Input("deductions must not be negative").WithField("deductions")
	}
	if annualIncome.GreaterThanOrEqual(money.MaxAmount) {
		return errors.Inputf("annual income must be less than %s", money.MaxAmount).WithField("income")
	}
	return nil
}
