// Package ui - Terminal user interface
// Styled CLI output: headers, status lines, summary boxes and tables.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette
const (
	Red     = lipgloss.Color("1")
	Green   = lipgloss.Color("2")
	Yellow  = lipgloss.Color("3")
	Blue    = lipgloss.Color("4")
	Magenta = lipgloss.Color("5")
	Cyan    = lipgloss.Color("6")
	Gray    = lipgloss.Color("8")
)

// Writer is the UI output destination
type Writer struct {
	out       io.Writer
	renderer  *lipgloss.Renderer
	noColor   bool
	verbosity int
}

// NewWriter creates a UI writer. Color is only emitted when out is a
// terminal and noColor is false.
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:       out,
		renderer:  lipgloss.NewRenderer(out),
		noColor:   noColor,
		verbosity: 1,
	}
}

// SetVerbosity sets output verbosity (0=quiet, 1=normal, 2=verbose)
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

// style returns a renderer-bound style, colored unless color is disabled.
func (w *Writer) style(c lipgloss.Color) lipgloss.Style {
	s := w.renderer.NewStyle()
	if !w.noColor && c != "" {
		s = s.Foreground(c)
	}
	return s
}

// Println writes a line with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("")
	w.Println("%s", w.style(Cyan).Bold(true).Render("━━━ "+title+" ━━━"))
	w.Println("")
}

// SubHeader prints a subsection header
func (w *Writer) SubHeader(title string) {
	w.Println("%s", w.style("").Bold(true).Render("▸ "+title))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s%s", w.style(Green).Render("✓ "), fmt.Sprintf(format, args...))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Println("%s%s", w.style(Yellow).Render("⚠ "), fmt.Sprintf(format, args...))
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.Println("%s%s", w.style(Red).Render("✗ "), fmt.Sprintf(format, args...))
}

// Info prints an info message
func (w *Writer) Info(format string, args ...interface{}) {
	if w.verbosity < 1 {
		return
	}
	w.Println("%s%s", w.style(Blue).Render("ℹ "), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.verbosity < 2 {
		return
	}
	w.Println("%s", w.style(Gray).Render("  "+fmt.Sprintf(format, args...)))
}

// Table renders a bordered table
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	right   map[int]bool
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	return &Table{
		w:       w,
		headers: headers,
		rows:    [][]string{},
		right:   make(map[int]bool),
	}
}

// AlignRight right-aligns the given columns (numbers).
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	// Pad or truncate cells to match header count
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows added so far
func (t *Table) Len() int {
	return len(t.rows)
}

// String returns the rendered table
func (t *Table) String() string {
	headerStyle := t.w.style(Cyan).Bold(true).Padding(0, 1)
	cellStyle := t.w.renderer.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.w.style(Gray)).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cellStyle
			if row == table.HeaderRow {
				s = headerStyle
			}
			if t.right[col] {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	return tbl.String()
}

// Render prints the table
func (t *Table) Render() {
	t.w.Println("%s", t.String())
}

// Summary is a boxed list of label/value pairs
type Summary struct {
	w      *Writer
	title  string
	labels []string
	values []string
	accent map[int]bool
}

// NewSummary creates a summary box
func (w *Writer) NewSummary(title string) *Summary {
	return &Summary{w: w, title: title, accent: make(map[int]bool)}
}

// Add appends a line
func (s *Summary) Add(label, value string) *Summary {
	s.labels = append(s.labels, label)
	s.values = append(s.values, value)
	return s
}

// Highlight adds a line rendered in the accent color
func (s *Summary) Highlight(label, value string) *Summary {
	s.accent[len(s.labels)] = true
	return s.Add(label, value)
}

// String returns the rendered box
func (s *Summary) String() string {
	width := 0
	for _, l := range s.labels {
		if len(l) > width {
			width = len(l)
		}
	}

	lines := make([]string, 0, len(s.labels)+1)
	if s.title != "" {
		lines = append(lines, s.w.style("").Bold(true).Render(s.title), "")
	}
	for i, label := range s.labels {
		line := fmt.Sprintf("%-*s  %s", width+1, label+":", s.values[i])
		if s.accent[i] {
			line = s.w.style(Green).Bold(true).Render(line)
		}
		lines = append(lines, line)
	}

	box := s.w.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	if !s.w.noColor {
		box = box.BorderForeground(Gray)
	}
	return box.Render(strings.Join(lines, "\n"))
}

// Render prints the summary box
func (s *Summary) Render() {
	s.w.Println("%s", s.String())
}

// Bar renders a proportional bar of width cells for a percentage.
func (w *Writer) Bar(percent float64, width int, c lipgloss.Color) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return w.style(c).Render(strings.Repeat("█", filled)) + w.style(Gray).Render(strings.Repeat("░", width-filled))
}
