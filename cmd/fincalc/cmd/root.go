// Package cmd provides the CLI commands for fincalc.
package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fincalc/core/money"
	"fincalc/core/output"
	"fincalc/core/ui"
	"fincalc/internal/config"
	"fincalc/internal/errors"
	"fincalc/internal/logging"
)

// Version is set at build time with -ldflags "-X fincalc/cmd/fincalc/cmd.Version=..."
var Version = "0.1.0"

// options holds the persistent flags and the loaded configuration
type options struct {
	cfgFile  string
	verbose  bool
	noColor  bool
	format   string
	currency string

	cfg *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fincalc",
		Short: "Loan, tax and salary calculators",
		Long: `fincalc computes loan installments, progressive income tax and salary
breakdowns with exact decimal arithmetic.

Examples:
  fincalc loan --principal 100000 --rate 8.5 --tenure 20 --schedule
  fincalc tax --income 60000 --table uk
  fincalc salary --gross 5000 --allowance Housing:fixed:500 --deduction Tax:percentage:15
  fincalc --format json loan --principal 10000 --rate 12 --tenure 24 --unit months`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.fincalc/config.json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output and debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVarP(&opts.format, "format", "f", "", "output format ("+formatNames()+")")
	flags.StringVar(&opts.currency, "currency", "", "ISO 4217 currency used for display (default from config)")

	rootCmd.AddCommand(newLoanCmd(opts))
	rootCmd.AddCommand(newTaxCmd(opts))
	rootCmd.AddCommand(newSalaryCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI, printing any error to stderr
func Execute() error {
	opts := &options{}
	rootCmd := newRootCmd(opts)
	if err := rootCmd.Execute(); err != nil {
		opts.writer(rootCmd.ErrOrStderr()).Error("%s", userMessage(err))
		return err
	}
	return nil
}

func formatNames() string {
	formats := output.NewRegistry(output.Options{}).Formats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// initialize loads configuration, sets up logging and resolves flag
// defaults from the config.
func (o *options) initialize(cmd *cobra.Command) error {
	path := o.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	o.cfg = cfg

	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error initializing logging: %v\n", err)
	}
	logging.Debug("Configuration loaded", zap.String("path", path), zap.String("command", cmd.Name()))

	if o.format == "" {
		o.format = cfg.Output.DefaultFormat
	}
	if o.currency == "" {
		o.currency = cfg.Defaults.Currency
	}
	if !money.Supported(o.currency) {
		return errors.Inputf("unknown currency %q", o.currency).WithField("currency")
	}
	return nil
}

func (o *options) outputOptions() output.Options {
	return output.Options{NoColor: o.noColor, Verbose: o.verbose}
}

// writer returns a status-line writer honoring --no-color and --verbose
func (o *options) writer(w io.Writer) *ui.Writer {
	out := ui.NewWriter(w, o.noColor)
	if o.verbose {
		out.SetVerbosity(2)
	}
	return out
}

// render writes report in the selected format
func (o *options) render(w io.Writer, report *output.Report) error {
	formatter, err := output.NewRegistry(o.outputOptions()).Get(output.Format(o.format))
	if err != nil {
		return err
	}
	if report.Currency == "" {
		report.Currency = o.currency
	}
	report.Metadata = output.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}
	return formatter.Render(w, report)
}

// parseDecimal parses a numeric flag value
func parseDecimal(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errors.Parsing(fmt.Sprintf("--%s must be a number, got %q", flag, value), err).WithField(flag)
	}
	return d, nil
}

// userMessage renders err for people rather than logs
func userMessage(err error) string {
	if e, ok := errors.As(err); ok {
		return e.Message
	}
	return err.Error()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fincalc version %s\n", Version)
		},
	}
}
