// Package config provides configuration management.
package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"fincalc/core/loan"
	"fincalc/internal/errors"
	"fincalc/internal/logging"
)

// EnvPrefix prefixes every environment override (FINCALC_DEFAULTS_CURRENCY).
const EnvPrefix = "FINCALC"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Defaults are applied when a flag or request field is omitted
	Defaults DefaultsConfig `json:"defaults" mapstructure:"defaults"`

	// Tax contains tax table configuration
	Tax TaxConfig `json:"tax" mapstructure:"tax"`

	// Limits bound the inputs accepted from users
	Limits LimitsConfig `json:"limits" mapstructure:"limits"`

	// Output contains output configuration
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// DefaultsConfig contains fallback values for omitted inputs
type DefaultsConfig struct {
	// Currency is the ISO 4217 code used for display
	Currency string `json:"currency" mapstructure:"currency"`

	// TaxTable is the tax table ID used when none is given
	TaxTable string `json:"tax_table" mapstructure:"tax_table"`

	// SalaryPeriod is "monthly" or "yearly"
	SalaryPeriod string `json:"salary_period" mapstructure:"salary_period"`

	// TenureUnit is "months" or "years"
	TenureUnit string `json:"tenure_unit" mapstructure:"tenure_unit"`
}

// TaxConfig contains tax table settings
type TaxConfig struct {
	// TablesDir holds custom *.hcl tax tables loaded next to the built-ins
	TablesDir string `json:"tables_dir" mapstructure:"tables_dir"`
}

// LimitsConfig bounds user input
type LimitsConfig struct {
	// MaxPrincipal is the largest loan principal accepted
	MaxPrincipal float64 `json:"max_principal" mapstructure:"max_principal"`

	// MaxAnnualRate is the largest annual interest rate in percent
	MaxAnnualRate float64 `json:"max_annual_rate" mapstructure:"max_annual_rate"`

	// MaxTenureMonths is the longest loan tenure accepted
	MaxTenureMonths int `json:"max_tenure_months" mapstructure:"max_tenure_months"`
}

// LoanLimits converts the limits for loan validation.
func (l LimitsConfig) LoanLimits() loan.Limits {
	return loan.Limits{
		MaxPrincipal:    decimal.NewFromFloat(l.MaxPrincipal),
		MaxAnnualRate:   decimal.NewFromFloat(l.MaxAnnualRate),
		MaxTenureMonths: l.MaxTenureMonths,
	}
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (cli, json)
	DefaultFormat string `json:"default_format" mapstructure:"default_format"`

	// ShowSchedule prints the full amortization schedule
	ShowSchedule bool `json:"show_schedule" mapstructure:"show_schedule"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" mapstructure:"addr"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`

	// RateLimit throttles each client
	RateLimit RateLimitConfig `json:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	// Enabled turns rate limiting on
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// RequestsPerSecond is the refill rate
	RequestsPerSecond float64 `json:"requests_per_second" mapstructure:"requests_per_second"`

	// Burst is the bucket size
	Burst int `json:"burst" mapstructure:"burst"`

	// TrustedProxies lists the proxy addresses or CIDRs whose
	// X-Forwarded-For header identifies the client. Empty means the
	// header is ignored.
	TrustedProxies []string `json:"trusted_proxies" mapstructure:"trusted_proxies"`
}

// DefaultPath is where the CLI looks for its config file when --config is
// not given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".fincalc", "config.json")
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	tablesDir := filepath.Join(homeDir, ".fincalc", "tables")

	return &Config{
		Version: "1.0",
		Defaults: DefaultsConfig{
			Currency:     "USD",
			TaxTable:     "us",
			SalaryPeriod: "monthly",
			TenureUnit:   "years",
		},
		Tax: TaxConfig{
			TablesDir: tablesDir,
		},
		Limits: LimitsConfig{
			MaxPrincipal:    1_000_000_000_000,
			MaxAnnualRate:   100,
			MaxTenureMonths: 600, // 50 years
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowSchedule:  false,
		},
		Server: ServerConfig{
			Addr:                   ":8080",
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    15,
			ShutdownTimeoutSeconds: 10,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerSecond: 10,
				Burst:             20,
				TrustedProxies:    []string{},
			},
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load layers defaults, the file at path (JSON or YAML by extension) and
// FINCALC_* environment variables. A missing file yields defaults plus env.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := registerDefaults(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Config("failed to read config file", err).WithContext("path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Config("failed to decode config", err)
	}
	return cfg, nil
}

// registerDefaults flattens Default() into viper defaults so every key is
// known to AutomaticEnv during Unmarshal.
func registerDefaults(v *viper.Viper) error {
	data, err := json.Marshal(Default())
	if err != nil {
		return errors.Internal("failed to encode default config", err)
	}

	d := viper.New()
	d.SetConfigType("json")
	if err := d.ReadConfig(strings.NewReader(string(data))); err != nil {
		return errors.Internal("failed to load default config", err)
	}
	for _, key := range d.AllKeys() {
		v.SetDefault(key, d.Get(key))
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
