// Package api - API types for the calculators
// Requests accept decimals as JSON strings or numbers; responses always
// encode them as strings.
package api

import (
	"github.com/shopspring/decimal"

	"fincalc/core/loan"
	"fincalc/core/salary"
	"fincalc/core/tax"
)

// LoanRequest is the input to POST /loan
type LoanRequest struct {
	Principal decimal.Decimal `json:"principal"`

	// Rate is the annual interest rate in percent
	Rate decimal.Decimal `json:"rate"`

	Tenure decimal.Decimal `json:"tenure"`

	// Unit is "months" or "years"; the configured default when empty
	Unit string `json:"unit,omitempty"`

	// Schedule includes the amortization table when true
	Schedule bool `json:"schedule,omitempty"`
}

// LoanResponse is the output of POST /loan
type LoanResponse struct {
	RequestID string `json:"request_id"`
	Currency  string `json:"currency"`
	loan.Result
}

// TaxRequest is the input to POST /tax
type TaxRequest struct {
	// Income is the annual gross income
	Income decimal.Decimal `json:"income"`

	// Deductions are subtracted on top of the table's standard deduction
	Deductions decimal.Decimal `json:"deductions"`

	// Table is a registered table ID; the configured default when empty
	Table string `json:"table,omitempty"`
}

// TaxResponse is the output of POST /tax
type TaxResponse struct {
	RequestID string `json:"request_id"`
	tax.Result
}

// ComponentRequest is one allowance or deduction line
type ComponentRequest struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// SalaryRequest is the input to POST /salary
type SalaryRequest struct {
	Gross decimal.Decimal `json:"gross"`

	// Period is "monthly" or "yearly"; the configured default when empty
	Period string `json:"period,omitempty"`

	Allowances []ComponentRequest `json:"allowances,omitempty"`
	Deductions []ComponentRequest `json:"deductions,omitempty"`

	// WithDefaults prepends the default allowance and deduction templates
	WithDefaults bool `json:"with_defaults,omitempty"`
}

// SalaryResponse is the output of POST /salary
type SalaryResponse struct {
	RequestID string `json:"request_id"`
	Currency  string `json:"currency"`
	salary.Result
}

// TablesResponse is the output of GET /tax/tables
type TablesResponse struct {
	Tables []tax.Config `json:"tables"`
	Count  int          `json:"count"`
}

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps ErrorBody
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
