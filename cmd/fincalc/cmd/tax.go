// Package cmd - tax command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fincalc/core/output"
	"fincalc/core/tax"
	"fincalc/internal/logging"
)

func newTaxCmd(opts *options) *cobra.Command {
	var (
		income     string
		deductions string
		table      string
		tablesDir  string
	)

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate income tax against a progressive bracket table",
		Long: `Estimate income tax. Only the part of taxable income inside each bracket
is taxed at that bracket's rate.

Built-in tables: us, uk, india, custom. Additional tables are loaded from
*.hcl files in --tables-dir:

  table "nz" {
    name     = "New Zealand (2024-25)"
    currency = "NZD"
    bracket {
      min  = 0
      max  = 15600
      rate = 10.5
    }
    bracket {
      min  = 15600
      rate = 17.5
    }
  }

Examples:
  fincalc tax --income 60000
  fincalc tax --income 60000 --deductions 5000 --table uk
  fincalc tax tables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gross, err := parseDecimal("income", income)
			if err != nil {
				return err
			}
			extra, err := parseDecimal("deductions", deductions)
			if err != nil {
				return err
			}
			if err := tax.ValidateAmounts(gross, extra); err != nil {
				return err
			}

			registry, err := loadTables(opts, tablesDir)
			if err != nil {
				return err
			}
			if table == "" {
				table = opts.cfg.Defaults.TaxTable
			}
			cfg, err := registry.Get(table)
			if err != nil {
				return err
			}

			result := tax.Compute(gross, extra, cfg)
			logging.Debug("Tax computed",
				zap.String("table", cfg.ID),
				zap.String("total_tax", result.TotalTax.String()),
			)

			return opts.render(cmd.OutOrStdout(), &output.Report{
				Kind:     output.KindTax,
				Currency: cfg.Currency,
				Tax:      &result,
			})
		},
	}

	cmd.Flags().StringVarP(&income, "income", "i", "", "annual gross income")
	cmd.Flags().StringVarP(&deductions, "deductions", "d", "0", "deductions on top of the table's standard deduction")
	cmd.Flags().StringVar(&table, "table", "", "tax table ID (default from config)")
	cmd.PersistentFlags().StringVar(&tablesDir, "tables-dir", "", "directory of custom *.hcl tax tables (default from config)")
	_ = cmd.MarkFlagRequired("income")

	cmd.AddCommand(&cobra.Command{
		Use:   "tables",
		Short: "List available tax tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadTables(opts, tablesDir)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), &output.Report{
				Kind:   output.KindTaxTables,
				Tables: registry.List(),
			})
		},
	})

	return cmd
}

func loadTables(opts *options, dir string) (*tax.Registry, error) {
	if dir == "" {
		dir = opts.cfg.Tax.TablesDir
	}
	return tax.NewDefaultRegistry(dir)
}
