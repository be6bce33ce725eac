// Package api - Request orchestration for the calculators
// The handler validates and converts requests, then delegates to the
// engines in core/. It contains no calculation logic.
package api

import (
	"fincalc/core/loan"
	"fincalc/core/salary"
	"fincalc/core/tax"
	"fincalc/internal/config"
	"fincalc/internal/errors"
)

// Handler turns requests into engine calls
type Handler struct {
	tables   *tax.Registry
	limits   loan.Limits
	defaults config.DefaultsConfig
}

// NewHandler creates a new handler
func NewHandler(tables *tax.Registry, cfg *config.Config) *Handler {
	return &Handler{
		tables:   tables,
		limits:   cfg.Limits.LoanLimits(),
		defaults: cfg.Defaults,
	}
}

// Loan validates req and computes the loan
func (h *Handler) Loan(requestID string, req *LoanRequest) (*LoanResponse, error) {
	unit := req.Unit
	if unit == "" {
		unit = h.defaults.TenureUnit
	}

	in := loan.Input{
		Principal:  req.Principal,
		AnnualRate: req.Rate,
		Tenure:     req.Tenure,
		Unit:       loan.TenureUnit(unit),
	}
	if err := in.Validate(h.limits); err != nil {
		return nil, err
	}

	result := loan.Compute(in)
	if !req.Schedule {
		result.Schedule = nil
	}

	return &LoanResponse{
		RequestID: requestID,
		Currency:  h.defaults.Currency,
		Result:    result,
	}, nil
}

// Tax validates req and computes the tax owed against the requested table
func (h *Handler) Tax(requestID string, req *TaxRequest) (*TaxResponse, error) {
	if err := tax.ValidateAmounts(req.Income, req.Deductions); err != nil {
		return nil, err
	}

	id := req.Table
	if id == "" {
		id = h.defaults.TaxTable
	}
	cfg, err := h.tables.Get(id)
	if err != nil {
		return nil, err
	}

	return &TaxResponse{
		RequestID: requestID,
		Result:    tax.Compute(req.Income, req.Deductions, cfg),
	}, nil
}

// Salary validates req and computes the breakdown
func (h *Handler) Salary(requestID string, req *SalaryRequest) (*SalaryResponse, error) {
	period := req.Period
	if period == "" {
		period = h.defaults.SalaryPeriod
	}

	in := salary.Input{
		Gross:  req.Gross,
		Period: salary.Period(period),
	}
	if req.WithDefaults {
		in.Allowances = salary.DefaultAllowances()
		in.Deductions = salary.DefaultDeductions()
	}

	allowances, err := components(req.Allowances)
	if err != nil {
		return nil, err
	}
	deductions, err := components(req.Deductions)
	if err != nil {
		return nil, err
	}
	in.Allowances = append(in.Allowances, allowances...)
	in.Deductions = append(in.Deductions, deductions...)

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return &SalaryResponse{
		RequestID: requestID,
		Currency:  h.defaults.Currency,
		Result:    salary.Compute(in),
	}, nil
}

// Tables lists every registered tax table
func (h *Handler) Tables() *TablesResponse {
	tables := h.tables.List()
	return &TablesResponse{Tables: tables, Count: len(tables)}
}

// Table returns one tax table
func (h *Handler) Table(id string) (tax.Config, error) {
	return h.tables.Get(id)
}

func components(reqs []ComponentRequest) ([]salary.Component, error) {
	out := make([]salary.Component, 0, len(reqs))
	for i, r := range reqs {
		kind, err := salary.ParseKind(r.Kind)
		if err != nil {
			if e, ok := errors.As(err); ok {
				return nil, e.WithContext("index", i)
			}
			return nil, err
		}
		out = append(out, salary.NewComponent(r.Name, kind, r.Value))
	}
	return out, nil
}
