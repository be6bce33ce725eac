// Package cmd - salary command
package cmd

import (
	"github.com/spf13/cobra"

	"fincalc/core/output"
	"fincalc/core/salary"
)

func newSalaryCmd(opts *options) *cobra.Command {
	var (
		gross        string
		period       string
		allowances   []string
		deductions   []string
		withDefaults bool
	)

	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Break a gross salary down into allowances, deductions and net pay",
		Long: `Compute monthly and yearly net pay.

Components are given as Name:kind:value where kind is fixed or percentage.
Percentage allowances are taken of the monthly gross; percentage deductions
are taken of the monthly gross plus all allowances.

Examples:
  fincalc salary --gross 5000 --allowance Housing:fixed:500 --deduction Tax:percentage:15
  fincalc salary --gross 60000 --period yearly --with-defaults --allowance HRA:percentage:40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := salary.Input{Period: salary.Period(period)}
			if in.Period == "" {
				in.Period = salary.Period(opts.cfg.Defaults.SalaryPeriod)
			}

			var err error
			if in.Gross, err = parseDecimal("gross", gross); err != nil {
				return err
			}

			if withDefaults {
				in.Allowances = salary.DefaultAllowances()
				in.Deductions = salary.DefaultDeductions()
			}
			for _, s := range allowances {
				c, err := salary.ParseComponent(s)
				if err != nil {
					return err
				}
				in.Allowances = append(in.Allowances, c)
			}
			for _, s := range deductions {
				c, err := salary.ParseComponent(s)
				if err != nil {
					return err
				}
				in.Deductions = append(in.Deductions, c)
			}

			if err := in.Validate(); err != nil {
				return err
			}

			result := salary.Compute(in)
			return opts.render(cmd.OutOrStdout(), &output.Report{
				Kind:   output.KindSalary,
				Salary: &result,
			})
		},
	}

	cmd.Flags().StringVarP(&gross, "gross", "g", "", "gross salary for --period")
	cmd.Flags().StringVar(&period, "period", "", "monthly or yearly (default from config)")
	cmd.Flags().StringArrayVarP(&allowances, "allowance", "a", nil, "allowance as Name:kind:value (repeatable)")
	cmd.Flags().StringArrayVarP(&deductions, "deduction", "d", nil, "deduction as Name:kind:value (repeatable)")
	cmd.Flags().BoolVar(&withDefaults, "with-defaults", false, "start from the default allowance and deduction templates")
	_ = cmd.MarkFlagRequired("gross")

	return cmd
}
