package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"fincalc/core/loan"
	"fincalc/core/money"
	"fincalc/core/salary"
	"fincalc/core/tax"
	"fincalc/core/ui"
	"fincalc/internal/errors"
)

const barWidth = 30

// CLIFormatter renders reports as styled terminal text
type CLIFormatter struct {
	opts Options
}

// NewCLIFormatter creates a CLI formatter
func NewCLIFormatter(opts Options) *CLIFormatter {
	return &CLIFormatter{opts: opts}
}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the report
func (f *CLIFormatter) Render(w io.Writer, report *Report) error {
	out := ui.NewWriter(w, f.opts.NoColor)
	if f.opts.Verbose {
		out.SetVerbosity(2)
	}

	switch {
	case report.Kind == KindLoan && report.Loan != nil:
		renderLoan(out, report.Loan, report.Currency, report.ShowSchedule)
	case report.Kind == KindTax && report.Tax != nil:
		renderTax(out, report.Tax)
	case report.Kind == KindSalary && report.Salary != nil:
		renderSalary(out, report.Salary, report.Currency)
	case report.Kind == KindTaxTables:
		renderTables(out, report.Tables)
	default:
		return errors.Newf(errors.TypeInternal, "nothing to render for report kind %q", report.Kind)
	}
	return nil
}

func percent(d decimal.Decimal) string {
	return money.FormatNumber(d) + "%"
}

func renderLoan(out *ui.Writer, r *loan.Result, currency string, showSchedule bool) {
	principal := r.TotalPayable.Sub(r.TotalInterest)

	out.Header("Loan EMI")
	out.NewSummary("").
		Highlight("Monthly EMI", money.Format(r.EMI, currency)).
		Add("Principal", money.Format(principal, currency)).
		Add("Total Interest", money.Format(r.TotalInterest, currency)).
		Add("Total Payable", money.Format(r.TotalPayable, currency)).
		Add("Tenure", strconv.Itoa(r.Months)+" months").
		Render()
	out.Debug("Monthly rate %s%%", r.MonthlyRate.Mul(money.Hundred).Round(8).String())

	out.Println("")
	out.Println("Principal %s %s", out.Bar(r.PrincipalShare.InexactFloat64(), barWidth, ui.Blue), percent(r.PrincipalShare))
	out.Println("Interest  %s %s", out.Bar(r.InterestShare.InexactFloat64(), barWidth, ui.Magenta), percent(r.InterestShare))

	if !showSchedule {
		return
	}

	out.Println("")
	out.SubHeader("Amortization Schedule")
	tbl := out.NewTable("Month", "EMI", "Principal", "Interest", "Balance").AlignRight(0, 1, 2, 3, 4)
	for _, p := range r.Schedule {
		tbl.AddRow(
			strconv.Itoa(p.Month),
			money.Format(p.EMI, currency),
			money.Format(p.Principal, currency),
			money.Format(p.Interest, currency),
			money.Format(p.Balance, currency),
		)
	}
	tbl.Render()
}

func renderTax(out *ui.Writer, r *tax.Result) {
	c := r.Currency

	out.Header(fmt.Sprintf("Income Tax (%s)", r.Table))
	out.NewSummary("").
		Add("Gross Income", money.Format(r.GrossIncome, c)).
		Add("Deductions", money.Format(r.TotalDeductions, c)).
		Add("Taxable Income", money.Format(r.TaxableIncome, c)).
		Highlight("Total Tax", money.Format(r.TotalTax, c)).
		Add("Effective Rate", percent(r.EffectiveRate)).
		Add("Marginal Rate", percent(r.MarginalRate)).
		Add("Net Income", money.Format(r.NetIncome, c)).
		Render()
	out.Debug("%d bracket(s) reached in table %s", len(r.Breakdown), r.Table)

	if len(r.Breakdown) == 0 {
		out.Println("")
		out.Info("No taxable income after deductions")
		return
	}

	out.Println("")
	out.SubHeader("Bracket Breakdown")
	tbl := out.NewTable("Bracket", "Rate", "Taxable", "Tax").AlignRight(1, 2, 3)
	for _, b := range r.Breakdown {
		tbl.AddRow(b.Label, percent(b.Rate), money.Format(b.TaxableAmount, c), money.Format(b.Tax, c))
	}
	tbl.Render()
}

func renderSalary(out *ui.Writer, r *salary.Result, currency string) {
	out.Header("Salary Breakdown")
	out.NewSummary("").
		Add("Monthly Gross", money.Format(r.MonthlyGross, currency)).
		Add("Allowances", "+"+money.Format(r.TotalAllowances, currency)).
		Add("Before Deductions", money.Format(r.BeforeDeductions, currency)).
		Add("Deductions", "-"+money.Format(r.TotalDeductions, currency)).
		Highlight("Monthly Net", money.Format(r.MonthlyNet, currency)).
		Add("Yearly Net", money.Format(r.YearlyNet, currency)).
		Render()
	out.Debug("Percentage deductions apply to %s", money.Format(r.BeforeDeductions, currency))

	renderShares(out, "Allowances", r.Breakdown.Allowances, currency)
	renderShares(out, "Deductions", r.Breakdown.Deductions, currency)
}

func renderShares(out *ui.Writer, title string, shares []salary.ComponentShare, currency string) {
	if len(shares) == 0 {
		return
	}

	out.Println("")
	out.SubHeader(title)
	tbl := out.NewTable("Name", "Value", "Amount", "Share").AlignRight(1, 2, 3)
	for _, s := range shares {
		value := money.Format(s.Value, currency)
		if s.Kind == salary.Percentage {
			value = percent(s.Value)
		}
		tbl.AddRow(s.Name, value, money.Format(s.Amount, currency), percent(s.Percentage))
	}
	tbl.Render()
}

func renderTables(out *ui.Writer, tables []tax.Config) {
	out.Header("Tax Tables")
	if len(tables) == 0 {
		out.Warning("No tax tables registered")
		return
	}

	tbl := out.NewTable("ID", "Name", "Currency", "Standard Deduction", "Brackets", "Top Rate").AlignRight(3, 4, 5)
	for _, t := range tables {
		deduction := "-"
		if !t.StandardDeduction.IsZero() {
			deduction = money.FormatWhole(t.StandardDeduction, t.Currency)
		}
		tbl.AddRow(t.ID, t.Name, t.Currency, deduction, strconv.Itoa(len(t.Brackets)), percent(t.TopRate()))
	}
	tbl.Render()
}
