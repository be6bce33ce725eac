package tax

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fincalc/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func builtinTable(t *testing.T, id string) Config {
	t.Helper()
	configs, err := Builtin()
	require.NoError(t, err)
	for _, cfg := range configs {
		if cfg.ID == id {
			return cfg
		}
	}
	t.Fatalf("built-in table %q not found", id)
	return Config{}
}

func TestComputeUnitedStates(t *testing.T) {
	result := Compute(d("60000"), decimal.Zero, builtinTable(t, "us"))

	assert.Equal(t, "us", result.Table)
	assert.Equal(t, "USD", result.Currency)
	assertDecimal(t, "60000", result.GrossIncome)
	assertDecimal(t, "14600", result.TotalDeductions)
	assertDecimal(t, "45400", result.TaxableIncome)
	assertDecimal(t, "5216", result.TotalTax)
	assertDecimal(t, "11.49", result.EffectiveRate)
	assertDecimal(t, "12", result.MarginalRate)
	assertDecimal(t, "54784", result.NetIncome)

	require.Len(t, result.Breakdown, 2)
	assert.Equal(t, "$0 - $11,600", result.Breakdown[0].Label)
	assertDecimal(t, "11600", result.Breakdown[0].TaxableAmount)
	assertDecimal(t, "1160", result.Breakdown[0].Tax)
	assert.Equal(t, "$11,600 - $47,150", result.Breakdown[1].Label)
	assertDecimal(t, "33800", result.Breakdown[1].TaxableAmount)
	assertDecimal(t, "4056", result.Breakdown[1].Tax)
}

func TestComputeExtraDeductions(t *testing.T) {
	result := Compute(d("60000"), d("5400"), builtinTable(t, "us"))

	assertDecimal(t, "20000", result.TotalDeductions)
	assertDecimal(t, "40000", result.TaxableIncome)
	// 1160 + (40000 - 11600) * 12%
	assertDecimal(t, "4568", result.TotalTax)
}

func TestComputeUnitedKingdom(t *testing.T) {
	result := Compute(d("60000"), decimal.Zero, builtinTable(t, "uk"))

	assertDecimal(t, "47430", result.TaxableIncome)
	assertDecimal(t, "6972", result.TotalTax)
	assertDecimal(t, "20", result.MarginalRate)
	assert.Equal(t, "£12,570 - £50,270", result.Breakdown[len(result.Breakdown)-1].Label)
}

func TestComputeTopBracket(t *testing.T) {
	cfg := builtinTable(t, "custom")
	result := Compute(d("100000"), decimal.Zero, cfg)

	// 1000 + 6000 + 12000 + 8000
	assertDecimal(t, "27000", result.TotalTax)
	assertDecimal(t, "40", result.MarginalRate)
	require.Len(t, result.Breakdown, 4)
	assert.Equal(t, "Above $80,000", result.Breakdown[3].Label)
	assert.False(t, result.Breakdown[3].Max.Valid)
}

func TestComputeFlat(t *testing.T) {
	result := Compute(d("1234.56"), decimal.Zero, Flat("flat", d("10")))

	assertDecimal(t, "123.46", result.TotalTax)
	assertDecimal(t, "10", result.EffectiveRate)
	assertDecimal(t, "10", result.MarginalRate)
}

func TestComputeZeroTaxable(t *testing.T) {
	result := Compute(d("10000"), decimal.Zero, builtinTable(t, "us"))

	assertDecimal(t, "0", result.TaxableIncome)
	assertDecimal(t, "0", result.TotalTax)
	assertDecimal(t, "0", result.EffectiveRate)
	assertDecimal(t, "0", result.MarginalRate)
	assertDecimal(t, "10000", result.NetIncome)
	assert.Empty(t, result.Breakdown)
}

func TestComputeIncomeOnBracketBoundary(t *testing.T) {
	cfg := Config{
		ID:       "edge",
		Currency: "USD",
		Brackets: []Bracket{
			Bounded(d("0"), d("1000"), d("10")),
			Above(d("1000"), d("20")),
		},
	}
	result := Compute(d("1000"), decimal.Zero, cfg)

	assertDecimal(t, "100", result.TotalTax)
	assertDecimal(t, "10", result.MarginalRate)
	assert.Len(t, result.Breakdown, 1)
}

func TestComputeInvariants(t *testing.T) {
	for _, id := range []string{"us", "uk", "india", "custom"} {
		cfg := builtinTable(t, id)
		top := cfg.TopRate()
		prevNet := decimal.NewFromInt(-1)

		for income := int64(0); income <= 2_000_000; income += 12_345 {
			t.Run(fmt.Sprintf("%s/%d", id, income), func(t *testing.T) {
				result := Compute(decimal.NewFromInt(income), decimal.Zero, cfg)

				assert.False(t, result.TotalTax.IsNegative())
				assert.True(t, result.TotalTax.LessThanOrEqual(result.TaxableIncome))
				assert.True(t, result.EffectiveRate.LessThanOrEqual(result.MarginalRate),
					"effective %s > marginal %s", result.EffectiveRate, result.MarginalRate)
				assert.True(t, result.MarginalRate.LessThanOrEqual(top))
				assert.True(t, result.NetIncome.GreaterThan(prevNet), "net income must grow with income")

				sum := decimal.Zero
				for _, share := range result.Breakdown {
					sum = sum.Add(share.Tax)
				}
				assert.True(t, sum.Sub(result.TotalTax).Abs().LessThanOrEqual(d("0.01")))

				prevNet = result.NetIncome
			})
		}
	}
}

func TestBuiltin(t *testing.T) {
	configs, err := Builtin()
	require.NoError(t, err)

	ids := make([]string, 0, len(configs))
	for _, cfg := range configs {
		ids = append(ids, cfg.ID)
		assert.NoError(t, cfg.Validate())
	}
	assert.Equal(t, []string{"custom", "india", "uk", "us"}, ids)

	india := builtinTable(t, "india")
	assert.Equal(t, "INR", india.Currency)
	assertDecimal(t, "50000", india.StandardDeduction)
	assertDecimal(t, "30", india.TopRate())

	assert.True(t, builtinTable(t, "custom").StandardDeduction.IsZero())
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ID:       "t",
			Currency: "USD",
			Brackets: []Bracket{
				Bounded(d("0"), d("100"), d("10")),
				Above(d("100"), d("20")),
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing id", func(c *Config) { c.ID = "" }},
		{"no brackets", func(c *Config) { c.Brackets = nil }},
		{"negative standard deduction", func(c *Config) { c.StandardDeduction = d("-1") }},
		{"unknown currency", func(c *Config) { c.Currency = "XXXX" }},
		{"first bracket above zero", func(c *Config) { c.Brackets[0].Min = d("1") }},
		{"rate above 100", func(c *Config) { c.Brackets[1].Rate = d("101") }},
		{"negative rate", func(c *Config) { c.Brackets[0].Rate = d("-5") }},
		{"regressive rates", func(c *Config) { c.Brackets[1].Rate = d("5") }},
		{"gap", func(c *Config) { c.Brackets[1].Min = d("150") }},
		{"overlap", func(c *Config) { c.Brackets[1].Min = d("50") }},
		{"empty band", func(c *Config) { c.Brackets[0].Max.Decimal = d("0") }},
		{"unbounded in the middle", func(c *Config) {
			c.Brackets = []Bracket{Above(d("0"), d("10")), Above(d("100"), d("20"))}
		}},
	}

	require.NoError(t, func() error { c := valid(); return c.Validate() }())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeTable), "got %v", err)
		})
	}
}

func TestValidateAmounts(t *testing.T) {
	assert.NoError(t, ValidateAmounts(d("0"), d("0")))

	err := ValidateAmounts(d("-1"), d("0"))
	require.Error(t, err)
	e, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.TypeInput, e.Type)
	assert.Equal(t, "income", e.Field())

	err = ValidateAmounts(d("1"), d("-1"))
	e, ok = errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "deductions", e.Field())

	tests := []struct {
		name       string
		income     string
		deductions string
		field      string
	}{
		{"income at the cap", "1000000000000000", "0", "income"},
		{"income exponent too small", "1e-4000000", "0", "income"},
		{"income exponent too large", "1e400000000", "0", "income"},
		{"deductions exponent too small", "1000", "1e-4000000", "deductions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := errors.As(ValidateAmounts(d(tt.income), d(tt.deductions)))
			require.True(t, ok)
			assert.Equal(t, errors.TypeInput, e.Type)
			assert.Equal(t, tt.field, e.Field())
		})
	}
	assert.NoError(t, ValidateAmounts(d("999999999999999.99"), d("0")))
}

const nzTables = `
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
    max  = 53500
    rate = 17.5
  }
  bracket {
    min  = 53500
    rate = 30
  }
}

table "flat20" {
  name               = "Flat 20"
  standard_deduction = 1000

  bracket {
    min  = 0
    rate = 20
  }
}
`

func TestParseHCL(t *testing.T) {
	configs, err := ParseHCL([]byte(nzTables), "nz.hcl")
	require.NoError(t, err)
	require.Len(t, configs, 2)

	nz := configs[0]
	assert.Equal(t, "nz", nz.ID)
	assert.Equal(t, "New Zealand (2024-25)", nz.Name)
	assert.Equal(t, "NZD", nz.Currency)
	require.Len(t, nz.Brackets, 3)
	assertDecimal(t, "10.5", nz.Brackets[0].Rate)
	assertDecimal(t, "15600", nz.Brackets[0].Max.Decimal)
	assert.True(t, nz.Brackets[2].Unbounded())

	flat := configs[1]
	assert.Equal(t, "USD", flat.Currency)
	assertDecimal(t, "1000", flat.StandardDeduction)

	result := Compute(d("20000"), decimal.Zero, nz)
	// 15600 * 10.5% + 4400 * 17.5%
	assertDecimal(t, "2408", result.TotalTax)
}

func TestParseHCLErrors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		_, err := ParseHCL([]byte("table \"x\" {\n  name = \n}\n"), "bad.hcl")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeParsing))
		assert.Contains(t, err.Error(), "bad.hcl:")
	})

	t.Run("missing attribute", func(t *testing.T) {
		_, err := ParseHCL([]byte("table \"x\" {\n  bracket {\n    min = 0\n    rate = 5\n  }\n}\n"), "noname.hcl")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeParsing))
	})

	t.Run("invalid brackets", func(t *testing.T) {
		src := `
table "gap" {
  name = "Gap"
  bracket {
    min  = 0
    max  = 100
    rate = 5
  }
  bracket {
    min  = 200
    rate = 10
  }
}
`
		_, err := ParseHCL([]byte(src), "gap.hcl")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeTable))
	})

	t.Run("regressive rates", func(t *testing.T) {
		src := `
table "down" {
  name = "Regressive"
  bracket {
    min  = 0
    max  = 1000
    rate = 20
  }
  bracket {
    min  = 1000
    rate = 10
  }
}
`
		_, err := ParseHCL([]byte(src), "down.hcl")
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeTable))
		assert.Contains(t, err.Error(), "below the previous rate")
	})
}

func TestLoadHCLDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nz.hcl"), []byte(nzTables), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	configs, err := LoadHCLDir(dir)
	require.NoError(t, err)
	assert.Len(t, configs, 2)

	configs, err = LoadHCLDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nz.hcl"), []byte(nzTables), 0o644))

	r, err := NewDefaultRegistry(dir)
	require.NoError(t, err)

	ids := []string{}
	for _, cfg := range r.List() {
		ids = append(ids, cfg.ID)
	}
	assert.Equal(t, []string{"custom", "flat20", "india", "nz", "uk", "us"}, ids)

	us, err := r.Get("us")
	require.NoError(t, err)
	assert.Equal(t, "United States (2024)", us.Name)

	_, err = r.Get("mars")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	err = r.Register(Flat("us", d("5")))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeTable))

	err = r.Register(Config{ID: "broken"})
	require.Error(t, err)
}

func TestDefaultRegistryRejectsDuplicateCustomTable(t *testing.T) {
	dir := t.TempDir()
	src := "table \"us\" {\n  name = \"Shadow\"\n  bracket {\n    min = 0\n    rate = 1\n  }\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "us.hcl"), []byte(src), 0o644))

	_, err := NewDefaultRegistry(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}
