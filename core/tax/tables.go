package tax

import (
	"embed"
	"io/fs"
	"path"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"fincalc/internal/errors"
)

//go:embed tables/*.yaml
var builtinFS embed.FS

// tableDef is the on-disk shape of a table, shared by the embedded YAML
// files and user HCL files.
type tableDef struct {
	ID                string       `yaml:"id" hcl:"id,label"`
	Name              string       `yaml:"name" hcl:"name"`
	Currency          string       `yaml:"currency" hcl:"currency,optional"`
	StandardDeduction *float64     `yaml:"standard_deduction" hcl:"standard_deduction,optional"`
	Brackets          []bracketDef `yaml:"brackets" hcl:"bracket,block"`
}

type bracketDef struct {
	Min  float64  `yaml:"min" hcl:"min"`
	Max  *float64 `yaml:"max" hcl:"max,optional"`
	Rate float64  `yaml:"rate" hcl:"rate"`
}

func (s tableDef) config() Config {
	cfg := Config{
		ID:       s.ID,
		Name:     s.Name,
		Currency: s.Currency,
		Brackets: make([]Bracket, 0, len(s.Brackets)),
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if s.StandardDeduction != nil {
		cfg.StandardDeduction = decimal.NewFromFloat(*s.StandardDeduction)
	}
	for _, b := range s.Brackets {
		bracket := Bracket{
			Min:  decimal.NewFromFloat(b.Min),
			Rate: decimal.NewFromFloat(b.Rate),
		}
		if b.Max != nil {
			bracket.Max = decimal.NullDecimal{Decimal: decimal.NewFromFloat(*b.Max), Valid: true}
		}
		cfg.Brackets = append(cfg.Brackets, bracket)
	}
	return cfg
}

// ParseYAML decodes and validates one table.
func ParseYAML(data []byte, filename string) (Config, error) {
	var def tableDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Config{}, errors.Parsing("invalid tax table YAML", err).WithContext("file", filename)
	}
	cfg := def.config()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Builtin returns the tables shipped with the binary (us, uk, india,
// custom), sorted by ID.
func Builtin() ([]Config, error) {
	entries, err := fs.ReadDir(builtinFS, "tables")
	if err != nil {
		return nil, errors.Internal("failed to read built-in tax tables", err)
	}

	configs := make([]Config, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := builtinFS.ReadFile("tables/" + entry.Name())
		if err != nil {
			return nil, errors.Internal("failed to read built-in tax table", err)
		}
		cfg, err := ParseYAML(data, entry.Name())
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })
	return configs, nil
}
