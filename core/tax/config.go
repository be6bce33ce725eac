package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fincalc/core/money"
	"fincalc/internal/errors"
)

// Bracket is one progressive tax band. A bracket whose Max is not Valid is
// unbounded and must be the last one.
type Bracket struct {
	Min  decimal.Decimal     `json:"min"`
	Max  decimal.NullDecimal `json:"max"`
	Rate decimal.Decimal     `json:"rate"`
}

// Unbounded reports whether the bracket has no upper limit.
func (b Bracket) Unbounded() bool {
	return !b.Max.Valid
}

// Config is a named progressive bracket table.
type Config struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`

	// StandardDeduction is subtracted from income before brackets apply;
	// zero means the table has none.
	StandardDeduction decimal.Decimal `json:"standard_deduction"`

	Brackets []Bracket `json:"brackets"`
}

// Validate checks that brackets start at zero, ascend without gaps or
// overlaps, and that only the last one is unbounded.
func (c Config) Validate() error {
	id := c.ID
	if id == "" {
		return errors.Table(c.Name, "missing id")
	}
	if len(c.Brackets) == 0 {
		return errors.Table(id, "no brackets")
	}
	if c.StandardDeduction.IsNegative() {
		return errors.Table(id, "standard deduction must not be negative")
	}
	if c.Currency != "" && !money.Supported(c.Currency) {
		return errors.Table(id, fmt.Sprintf("unknown currency %q", c.Currency))
	}
	if !c.Brackets[0].Min.IsZero() {
		return errors.Table(id, "first bracket must start at 0")
	}

	last := len(c.Brackets) - 1
	for i, b := range c.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(money.Hundred) {
			return errors.Table(id, fmt.Sprintf("bracket %d: rate %s outside [0, 100]", i+1, b.Rate))
		}
		if i > 0 && b.Rate.LessThan(c.Brackets[i-1].Rate) {
			return errors.Table(id, fmt.Sprintf("bracket %d: rate %s is below the previous rate %s", i+1, b.Rate, c.Brackets[i-1].Rate))
		}
		if b.Unbounded() {
			if i != last {
				return errors.Table(id, fmt.Sprintf("bracket %d: only the last bracket may be unbounded", i+1))
			}
			continue
		}
		if !b.Max.Decimal.GreaterThan(b.Min) {
			return errors.Table(id, fmt.Sprintf("bracket %d: max %s must exceed min %s", i+1, b.Max.Decimal, b.Min))
		}
		if i < last && !b.Max.Decimal.Equal(c.Brackets[i+1].Min) {
			return errors.Table(id, fmt.Sprintf("bracket %d ends at %s but bracket %d starts at %s",
				i+1, b.Max.Decimal, i+2, c.Brackets[i+1].Min))
		}
	}
	return nil
}

// TopRate returns the highest rate in the table.
func (c Config) TopRate() decimal.Decimal {
	top := decimal.Zero
	for _, b := range c.Brackets {
		if b.Rate.GreaterThan(top) {
			top = b.Rate
		}
	}
	return top
}

// Flat builds a single unbounded bracket taxing everything at rate percent.
func Flat(id string, rate decimal.Decimal) Config {
	return Config{
		ID:       id,
		Name:     fmt.Sprintf("Flat %s%%", rate),
		Currency: "USD",
		Brackets: []Bracket{{Min: decimal.Zero, Rate: rate}},
	}
}

// Bounded is a convenience for constructing a bracket with an upper limit.
func Bounded(from, to, rate decimal.Decimal) Bracket {
	return Bracket{Min: from, Max: decimal.NullDecimal{Decimal: to, Valid: true}, Rate: rate}
}

// Above constructs the unbounded top bracket.
func Above(from, rate decimal.Decimal) Bracket {
	return Bracket{Min: from, Rate: rate}
}
