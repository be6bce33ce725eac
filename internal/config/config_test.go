package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fincalc/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Defaults, cfg.Defaults)
	assert.Equal(t, def.Limits, cfg.Limits)
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, "cli", cfg.Output.DefaultFormat)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "us", cfg.Defaults.TaxTable)
}

func TestLoadJSONFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fincalc.json")
	content := `{
  "defaults": {"currency": "INR", "tax_table": "india"},
  "server": {"addr": ":9090", "rate_limit": {"burst": 5}}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "INR", cfg.Defaults.Currency)
	assert.Equal(t, "india", cfg.Defaults.TaxTable)
	assert.Equal(t, "monthly", cfg.Defaults.SalaryPeriod, "untouched keys keep defaults")
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.RateLimit.Burst)
	assert.Equal(t, 10.0, cfg.Server.RateLimit.RequestsPerSecond)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fincalc.yaml")
	content := "output:\n  default_format: json\n  show_schedule: true\nlimits:\n  max_tenure_months: 360\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.True(t, cfg.Output.ShowSchedule)
	assert.Equal(t, 360, cfg.Limits.MaxTenureMonths)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("FINCALC_DEFAULTS_CURRENCY", "EUR")
	t.Setenv("FINCALC_SERVER_RATE_LIMIT_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Defaults.Currency)
	assert.False(t, cfg.Server.RateLimit.Enabled)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fincalc.json")

	cfg := Default()
	cfg.Defaults.Currency = "GBP"
	cfg.Defaults.TaxTable = "uk"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "GBP", loaded.Defaults.Currency)
	assert.Equal(t, "uk", loaded.Defaults.TaxTable)
}

func TestTrustedProxiesFromEnv(t *testing.T) {
	t.Setenv("FINCALC_SERVER_RATE_LIMIT_TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.Server.RateLimit.TrustedProxies)
	assert.Empty(t, Default().Server.RateLimit.TrustedProxies)
}

func TestLoanLimits(t *testing.T) {
	limits := Default().Limits.LoanLimits()

	assert.True(t, limits.MaxPrincipal.Equal(decimal.NewFromInt(1_000_000_000_000)))
	assert.True(t, limits.MaxAnnualRate.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 600, limits.MaxTenureMonths)
}
