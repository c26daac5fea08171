// Package output renders run summaries to the terminal or a file in
// text, JSON, or markdown form.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Renderable defines data that can render itself in multiple formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the underlying data for JSON serialization.
	RenderData() any
}

// Formatter handles output formatting.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a new formatter. A non-empty output path redirects
// everything to that file and disables color.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	var writer io.Writer = os.Stdout
	var file *os.File

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		writer = f
		file = f
		colored = false
	}

	return &Formatter{
		format:  format,
		writer:  writer,
		file:    file,
		colored: colored,
	}, nil
}

// Close closes the formatter's writer if it's a file.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Format returns the configured format.
func (f *Formatter) Format() Format {
	return f.format
}

// Output writes data in the configured format.
func (f *Formatter) Output(data any) error {
	if r, ok := data.(Renderable); ok {
		return f.render(r)
	}
	return f.outputJSON(data)
}

func (f *Formatter) render(r Renderable) error {
	switch f.format {
	case FormatJSON:
		return f.outputJSON(r.RenderData())
	case FormatMarkdown:
		return r.RenderMarkdown(f.writer)
	default:
		return r.RenderText(f.writer, f.colored)
	}
}

func (f *Formatter) outputJSON(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Table is a Renderable table with headers, rows, and optional footer.
type Table struct {
	Title   string     `json:"-"`
	Headers []string   `json:"-"`
	Rows    [][]string `json:"-"`
	Footer  []string   `json:"-"`
	Data    any        `json:"data,omitempty"`
}

// NewTable creates a table that wraps structured data for serialization.
func NewTable(title string, headers []string, rows [][]string, footer []string, data any) *Table {
	return &Table{
		Title:   title,
		Headers: headers,
		Rows:    rows,
		Footer:  footer,
		Data:    data,
	}
}

func (t *Table) RenderData() any {
	if t.Data != nil {
		return t.Data
	}
	result := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]string)
		for j, h := range t.Headers {
			if j < len(row) {
				m[h] = row[j]
			}
		}
		result[i] = m
	}
	return result
}

func (t *Table) RenderText(w io.Writer, colored bool) error {
	if t.Title != "" {
		if colored {
			color.New(color.Bold).Fprintln(w, t.Title)
		} else {
			fmt.Fprintln(w, t.Title)
		}
		fmt.Fprintln(w, strings.Repeat("=", len(t.Title)))
		fmt.Fprintln(w)
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Footer: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header(t.Headers)
	for _, row := range t.Rows {
		table.Append(row)
	}
	if len(t.Footer) > 0 {
		footerArgs := make([]any, len(t.Footer))
		for i, f := range t.Footer {
			footerArgs[i] = f
		}
		table.Footer(footerArgs...)
	}
	table.Render()
	fmt.Fprintln(w)
	return nil
}

func (t *Table) RenderMarkdown(w io.Writer) error {
	if t.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", t.Title)
	}

	fmt.Fprintf(w, "| %s |\n", strings.Join(t.Headers, " | "))

	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range t.Rows {
		fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | "))
	}

	if len(t.Footer) > 0 {
		fmt.Fprintf(w, "| %s |\n", strings.Join(t.Footer, " | "))
	}

	fmt.Fprintln(w)
	return nil
}

// Message helpers for colored output

func (f *Formatter) Warning(format string, args ...any) {
	if f.colored {
		color.Yellow(format, args...)
	} else {
		fmt.Fprintf(f.writer, "WARNING: "+format+"\n", args...)
	}
}

func (f *Formatter) Info(format string, args ...any) {
	if f.colored {
		color.Cyan(format, args...)
	} else {
		fmt.Fprintf(f.writer, format+"\n", args...)
	}
}
