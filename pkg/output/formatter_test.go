package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFormat(tt.input)
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatterToFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.json")

	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	// Writing to a file disables color.
	if f.colored {
		t.Error("colored should be off when writing to a file")
	}

	if err := f.Output(map[string]int{"pairs": 3}); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["pairs"] != 3 {
		t.Errorf("decoded pairs = %d, want 3", decoded["pairs"])
	}
}

func TestFormatterMessages(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatText, writer: &buf}

	f.Warning("skipped %d file(s)", 2)
	f.Info("scan complete")

	out := buf.String()
	if !strings.Contains(out, "WARNING: skipped 2 file(s)") {
		t.Errorf("Warning() output missing, got:\n%s", out)
	}
	if !strings.Contains(out, "scan complete") {
		t.Errorf("Info() output missing, got:\n%s", out)
	}
}

func TestNewFormatterBadPath(t *testing.T) {
	_, err := NewFormatter(FormatText, "/nonexistent/dir/out.txt", false)
	if err == nil {
		t.Error("NewFormatter() should fail for an unwritable path")
	}
}

func sampleSummary() *Summary {
	return &Summary{
		Root:         "testdata/project",
		OutputDir:    "class_pairs",
		Units:        3,
		Languages:    map[string]int{"python": 2, "ruby": 1},
		Declarations: 5,
		Pairs:        2,
		Reports: []ReportEntry{
			{File: "Animal.Dog.txt", AncestorUnit: "animals.py", DescendantUnit: "animals.py", Pairs: 1},
			{File: "Base.Mid.txt", AncestorUnit: "base.py", DescendantUnit: "sub.py", Pairs: 1, Renamed: true},
		},
		SkippedUnits: []string{"broken.py"},
		Cycles:       [][]string{{"A", "B", "A"}},
	}
}

func TestSummaryRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleSummary().RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"3 units (python 2, ruby 1), 5 declarations, 2 ancestor/descendant pairs",
		"Animal.Dog.txt",
		"Base.Mid.txt *",
		"Wrote 2 report(s) to class_pairs",
		"skipped broken.py",
		"inheritance cycle: A -> B -> A",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() missing %q in:\n%s", want, out)
		}
	}
}

func TestSummaryRenderTextEmpty(t *testing.T) {
	s := &Summary{Root: ".", OutputDir: "class_pairs"}
	var buf bytes.Buffer
	if err := s.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No inheritance pairs found") {
		t.Errorf("RenderText() should note the empty result, got:\n%s", buf.String())
	}
}

func TestSummaryRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleSummary().RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "| Report | Ancestor Unit | Descendant Unit | Pairs |") {
		t.Errorf("RenderMarkdown() missing table header:\n%s", out)
	}
	if !strings.Contains(out, "- `broken.py`") {
		t.Errorf("RenderMarkdown() missing skipped unit:\n%s", out)
	}
}

func TestSummaryOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatJSON, writer: &buf}

	if err := f.Output(sampleSummary()); err != nil {
		t.Fatalf("Output() error: %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Pairs != 2 || len(decoded.Reports) != 2 {
		t.Errorf("decoded summary = %+v", decoded)
	}
}

func TestTableRenderText(t *testing.T) {
	table := NewTable("Totals", []string{"Name", "Count"}, [][]string{
		{"pairs", "4"},
		{"units", "2"},
	}, nil, nil)

	var buf bytes.Buffer
	if err := table.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Totals") || !strings.Contains(out, "pairs") {
		t.Errorf("RenderText() output missing content:\n%s", out)
	}
}

func TestTableRenderData(t *testing.T) {
	table := NewTable("", []string{"A", "B"}, [][]string{{"1", "2"}}, nil, nil)

	data, ok := table.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData() = %T, want []map[string]string", table.RenderData())
	}
	if data[0]["A"] != "1" || data[0]["B"] != "2" {
		t.Errorf("RenderData() = %v", data)
	}
}
