// Package loan computes equated monthly installments and amortization
// schedules.
//
// EMI = P × r × (1 + r)^n / ((1 + r)^n − 1), with P the principal, r the
// monthly rate as a fraction and n the tenure in months.
package loan

import (
	"github.com/shopspring/decimal"

	"fincalc/core/money"
)

// TenureUnit is the unit a tenure is expressed in.
type TenureUnit string

const (
	Months TenureUnit = "months"
	Years  TenureUnit = "years"
)

// Input describes a loan. Call Validate before Compute.
type Input struct {
	// Principal is the amount borrowed
	Principal decimal.Decimal `json:"principal"`

	// AnnualRate is the yearly interest rate in percent (8.5 = 8.5%)
	AnnualRate decimal.Decimal `json:"annual_rate"`

	// Tenure is the loan duration in Unit
	Tenure decimal.Decimal `json:"tenure"`

	// Unit is months or years
	Unit TenureUnit `json:"unit"`
}

// Payment is one row of the amortization schedule.
type Payment struct {
	Month     int             `json:"month"`
	EMI       decimal.Decimal `json:"emi"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

// Result is the outcome of Compute. Amounts are rounded to cents.
type Result struct {
	EMI           decimal.Decimal `json:"emi"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalPayable  decimal.Decimal `json:"total_payable"`

	// Months is the tenure converted to whole months
	Months int `json:"months"`

	// MonthlyRate is the unrounded monthly rate as a fraction
	MonthlyRate decimal.Decimal `json:"monthly_rate"`

	// PrincipalShare and InterestShare split TotalPayable, in percent
	PrincipalShare decimal.Decimal `json:"principal_share"`
	InterestShare  decimal.Decimal `json:"interest_share"`

	Schedule []Payment `json:"schedule"`
}

// TenureMonths converts a tenure to whole months, rounding half away from zero.
func TenureMonths(tenure decimal.Decimal, unit TenureUnit) int {
	if unit == Years {
		tenure = tenure.Mul(money.Twelve)
	}
	return int(tenure.Round(0).IntPart())
}

// MonthlyRate converts an annual percentage into a monthly fraction.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(money.Twelve).Div(money.Hundred)
}

// Compute returns the EMI, totals and month-by-month schedule for in.
// in must have passed Validate.
func Compute(in Input) Result {
	n := TenureMonths(in.Tenure, in.Unit)
	r := MonthlyRate(in.AnnualRate)
	months := decimal.NewFromInt(int64(n))

	var emi, totalPayable, totalInterest decimal.Decimal
	if r.IsZero() {
		emi = in.Principal.DivRound(months, money.WorkingPlaces)
		totalPayable = in.Principal
		totalInterest = decimal.Zero
	} else {
		emi = installment(in.Principal, r, n)
		totalPayable = emi.Mul(months)
		totalInterest = totalPayable.Sub(in.Principal)
	}

	return Result{
		EMI:            money.Round(emi),
		TotalInterest:  money.Round(totalInterest),
		TotalPayable:   money.Round(totalPayable),
		Months:         n,
		MonthlyRate:    r,
		PrincipalShare: money.Round(money.Percent(in.Principal, totalPayable)),
		InterestShare:  money.Round(money.Percent(totalInterest, totalPayable)),
		Schedule:       Schedule(in.Principal, r, emi, n),
	}
}

// installment evaluates the EMI formula for a non-zero monthly rate.
func installment(principal, r decimal.Decimal, n int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(int64(n)))
	return principal.Mul(r).Mul(factor).DivRound(factor.Sub(decimal.NewFromInt(1)), money.WorkingPlaces)
}

// Schedule builds the amortization table for an unrounded emi.
//
// The running balance is never rounded to cents. Each row reports the
// balance rounded and clamped at zero, and the principal column is the drop
// between consecutive reported balances, so it sums to the principal.
func Schedule(principal, r, emi decimal.Decimal, n int) []Payment {
	rows := make([]Payment, 0, n)
	balance := principal
	reported := money.Round(principal)
	reportedEMI := money.Round(emi)

	for month := 1; month <= n; month++ {
		interest := money.Working(balance.Mul(r))
		balance = balance.Sub(emi.Sub(interest))

		next := money.Round(money.NonNegative(balance))
		if month == n {
			// drift of a few 1e-12 must not leave a stray cent
			next = decimal.Zero
		}

		rows = append(rows, Payment{
			Month:     month,
			EMI:       reportedEMI,
			Principal: reported.Sub(next),
			Interest:  money.Round(interest),
			Balance:   next,
		})
		reported = next
	}
	return rows
}
