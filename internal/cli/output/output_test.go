package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{
		{"table", FormatTable},
		{"", FormatTable},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
		{" yaml ", FormatYAML},
	}

	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Errorf("ParseFormat(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) expected error, got nil")
	}
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("NAME", "KIND")
	table.AddRow("notes.txt", "file")
	table.AddRow("docs", "directory")

	var buf bytes.Buffer
	if err := PrintTable(&buf, table); err != nil {
		t.Fatalf("PrintTable failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"NAME", "KIND", "notes.txt", "directory"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleTable(t *testing.T) {
	var buf bytes.Buffer
	err := SimpleTable(&buf, [][2]string{
		{"Path", "/Users/alice/notes.txt"},
		{"Kind", "file"},
	})
	if err != nil {
		t.Fatalf("SimpleTable failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Path") || !strings.Contains(out, "/Users/alice/notes.txt") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatJSON)
	if err := printer.Print(map[string]string{"path": "/a"}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"path": "/a"`) {
		t.Errorf("unexpected JSON output: %s", buf.String())
	}
}

func TestPrinterYAML(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatYAML)
	if err := printer.Print(map[string]string{"path": "/a"}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.Contains(buf.String(), "path: /a") {
		t.Errorf("unexpected YAML output: %s", buf.String())
	}
}

func TestPrinterTableFallback(t *testing.T) {
	// Non-TableRenderer data falls back to JSON in table mode.
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatTable)
	if err := printer.Print(map[string]int{"size": 3}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"size": 3`) {
		t.Errorf("unexpected fallback output: %s", buf.String())
	}
}
