// Package cmd - loan command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fincalc/core/loan"
	"fincalc/core/output"
	"fincalc/internal/logging"
)

func newLoanCmd(opts *options) *cobra.Command {
	var (
		principal string
		rate      string
		tenure    string
		unit      string
		schedule  bool
	)

	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Compute EMI, total interest and the amortization schedule",
		Long: `Compute the equated monthly installment (EMI) of a loan.

EMI = P x r x (1 + r)^n / ((1 + r)^n - 1), with r the monthly rate and n the
tenure in months. A zero rate divides the principal evenly.

Examples:
  fincalc loan --principal 100000 --rate 8.5 --tenure 20
  fincalc loan --principal 10000 --rate 12 --tenure 24 --unit months --schedule`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := loan.Input{Unit: loan.TenureUnit(unit)}
			if in.Unit == "" {
				in.Unit = loan.TenureUnit(opts.cfg.Defaults.TenureUnit)
			}

			var err error
			if in.Principal, err = parseDecimal("principal", principal); err != nil {
				return err
			}
			if in.AnnualRate, err = parseDecimal("rate", rate); err != nil {
				return err
			}
			if in.Tenure, err = parseDecimal("tenure", tenure); err != nil {
				return err
			}
			if err := in.Validate(opts.cfg.Limits.LoanLimits()); err != nil {
				return err
			}

			result := loan.Compute(in)
			logging.Debug("Loan computed",
				zap.String("emi", result.EMI.String()),
				zap.Int("months", result.Months),
			)

			if !cmd.Flags().Changed("schedule") {
				schedule = opts.cfg.Output.ShowSchedule
			}
			return opts.render(cmd.OutOrStdout(), &output.Report{
				Kind:         output.KindLoan,
				Loan:         &result,
				ShowSchedule: schedule,
			})
		},
	}

	cmd.Flags().StringVarP(&principal, "principal", "p", "", "amount borrowed")
	cmd.Flags().StringVarP(&rate, "rate", "r", "", "annual interest rate in percent (8.5 = 8.5%)")
	cmd.Flags().StringVarP(&tenure, "tenure", "t", "", "loan duration in --unit")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "tenure unit: years or months (default from config)")
	cmd.Flags().BoolVarP(&schedule, "schedule", "s", false, "print the month-by-month schedule")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("tenure")

	return cmd
}
