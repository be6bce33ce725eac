package output

import (
	"encoding/json"
	"io"

	"fincalc/internal/errors"
)

// JSONFormatter emits the report as indented JSON. Decimals are encoded
// as strings.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format returns the format type
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes the report
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Internal("failed to encode report", err)
	}
	return nil
}
