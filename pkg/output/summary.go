package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// ReportEntry describes one written report artifact.
type ReportEntry struct {
	File           string `json:"file"`
	AncestorUnit   string `json:"ancestor_unit"`
	DescendantUnit string `json:"descendant_unit"`
	Pairs          int    `json:"pairs"`
	Renamed        bool   `json:"renamed,omitempty"`
}

// Summary describes the outcome of one extraction run.
type Summary struct {
	Root         string         `json:"root"`
	OutputDir    string         `json:"output_dir"`
	Units        int            `json:"units"`
	Languages    map[string]int `json:"languages,omitempty"`
	Declarations int            `json:"declarations"`
	Pairs        int            `json:"pairs"`
	Reports      []ReportEntry  `json:"reports"`
	SkippedUnits []string       `json:"skipped_units,omitempty"`
	Cycles       [][]string     `json:"cycles,omitempty"`
}

// languageNote renders the per-language unit counts, sorted by name, e.g.
// "python 3, ruby 1". Empty when no breakdown was recorded.
func (s *Summary) languageNote() string {
	if len(s.Languages) == 0 {
		return ""
	}
	names := make([]string, 0, len(s.Languages))
	for lang := range s.Languages {
		names = append(names, lang)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, lang := range names {
		parts[i] = fmt.Sprintf("%s %d", lang, s.Languages[lang])
	}
	return strings.Join(parts, ", ")
}

func (s *Summary) RenderData() any {
	return s
}

func (s *Summary) table() *Table {
	rows := make([][]string, len(s.Reports))
	for i, r := range s.Reports {
		name := r.File
		if r.Renamed {
			name += " *"
		}
		rows[i] = []string{name, r.AncestorUnit, r.DescendantUnit, fmt.Sprintf("%d", r.Pairs)}
	}
	return NewTable(
		"Class pair reports",
		[]string{"Report", "Ancestor Unit", "Descendant Unit", "Pairs"},
		rows,
		[]string{"Total", "", "", fmt.Sprintf("%d", s.Pairs)},
		s,
	)
}

func (s *Summary) RenderText(w io.Writer, colored bool) error {
	units := fmt.Sprintf("%d units", s.Units)
	if note := s.languageNote(); note != "" {
		units += fmt.Sprintf(" (%s)", note)
	}
	fmt.Fprintf(w, "Scanned %s: %s, %d declarations, %d ancestor/descendant pairs\n\n",
		s.Root, units, s.Declarations, s.Pairs)

	if len(s.Reports) == 0 {
		fmt.Fprintf(w, "No inheritance pairs found; nothing written to %s\n", s.OutputDir)
	} else {
		if err := s.table().RenderText(w, colored); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %d report(s) to %s\n", len(s.Reports), s.OutputDir)
	}

	for _, unit := range s.SkippedUnits {
		if colored {
			color.New(color.FgYellow).Fprintf(w, "skipped %s\n", unit)
		} else {
			fmt.Fprintf(w, "skipped %s\n", unit)
		}
	}
	for _, cycle := range s.Cycles {
		msg := fmt.Sprintf("inheritance cycle: %s", strings.Join(cycle, " -> "))
		if colored {
			color.New(color.FgYellow).Fprintln(w, msg)
		} else {
			fmt.Fprintln(w, msg)
		}
	}
	return nil
}

func (s *Summary) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Class pair extraction\n\n")
	units := fmt.Sprintf("%d units", s.Units)
	if note := s.languageNote(); note != "" {
		units += fmt.Sprintf(" (%s)", note)
	}
	fmt.Fprintf(w, "Scanned `%s`: %s, %d declarations, %d pairs.\n\n",
		s.Root, units, s.Declarations, s.Pairs)

	if len(s.Reports) > 0 {
		if err := s.table().RenderMarkdown(w); err != nil {
			return err
		}
	}

	if len(s.SkippedUnits) > 0 {
		fmt.Fprintf(w, "Skipped units:\n\n")
		for _, unit := range s.SkippedUnits {
			fmt.Fprintf(w, "- `%s`\n", unit)
		}
		fmt.Fprintln(w)
	}
	if len(s.Cycles) > 0 {
		fmt.Fprintf(w, "Inheritance cycles:\n\n")
		for _, cycle := range s.Cycles {
			fmt.Fprintf(w, "- %s\n", strings.Join(cycle, " -> "))
		}
		fmt.Fprintln(w)
	}
	return nil
}
