package tax

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"fincalc/internal/errors"
)

// hclFile is the root of a custom tables file:
//
//	table "nz" {
//	  name     = "New Zealand (2024-25)"
//	  currency = "NZD"
//	  bracket {
//	    min  = 0
//	    max  = 15600
//	    rate = 10.5
//	  }
//	  bracket {
//	    min  = 15600
//	    rate = 17.5
//	  }
//	}
type hclFile struct {
	Tables []tableDef `hcl:"table,block"`
}

// ParseHCL decodes every table in src and validates each one.
func ParseHCL(src []byte, filename string) ([]Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	var doc hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	configs := make([]Config, 0, len(doc.Tables))
	for _, def := range doc.Tables {
		cfg := def.config()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// LoadHCLFile reads and parses one *.hcl file.
func LoadHCLFile(path string) ([]Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing("failed to read tax table file", err).WithContext("file", path)
	}
	return ParseHCL(src, path)
}

// LoadHCLDir loads every *.hcl file in dir, in name order. A missing
// directory yields no tables.
func LoadHCLDir(dir string) ([]Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Parsing("failed to read tax table directory", err).WithContext("dir", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".hcl") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var configs []Config
	for _, name := range names {
		loaded, err := LoadHCLFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		configs = append(configs, loaded...)
	}
	return configs, nil
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		return errors.Parsing(fmt.Sprintf("%s:%d: %s", filename, line, diag.Summary), diags).
			WithContext("file", filename).
			WithContext("line", line)
	}
	return errors.Parsing(filename, diags)
}
