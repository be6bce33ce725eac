// Package output provides output formatting interfaces.
// This package produces human and machine-readable calculation reports.
package output

import (
	"io"
	"sort"
	"strings"
	"sync"

	"fincalc/core/loan"
	"fincalc/core/salary"
	"fincalc/core/tax"
	"fincalc/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Kind identifies which calculator produced a report
type Kind string

const (
	KindLoan      Kind = "loan"
	KindTax       Kind = "tax"
	KindSalary    Kind = "salary"
	KindTaxTables Kind = "tax_tables"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is one calculation result plus what is needed to display it.
// Exactly one of Loan, Tax, Salary or Tables is set, matching Kind.
type Report struct {
	Kind Kind `json:"kind"`

	// Currency is the ISO code amounts are shown in
	Currency string `json:"currency"`

	Loan   *loan.Result   `json:"loan,omitempty"`
	Tax    *tax.Result    `json:"tax,omitempty"`
	Salary *salary.Result `json:"salary,omitempty"`
	Tables []tax.Config   `json:"tables,omitempty"`

	// ShowSchedule prints the loan's month-by-month table
	ShowSchedule bool `json:"-"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the calculation was performed
	Timestamp string `json:"timestamp,omitempty"`

	// Version is the tool version
	Version string `json:"version,omitempty"`
}

// Options tune how the built-in formatters render
type Options struct {
	// NoColor disables ANSI styling in cli output
	NoColor bool

	// Verbose adds calculation details to cli output
	Verbose bool
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry holding the cli and json formatters
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(NewCLIFormatter(opts))
	_ = r.Register(NewJSONFormatter())
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "formatter %s already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for a format type
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[format]
	if !ok {
		names := make([]string, 0, len(r.formatters))
		for _, name := range r.formats() {
			names = append(names, string(name))
		}
		return nil, errors.Inputf("unknown output format %q (want one of %s)", format, strings.Join(names, ", ")).WithField("format")
	}
	return f, nil
}

// Formats returns all registered format names, sorted
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formats()
}

func (r *Registry) formats() []Format {
	formats := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
