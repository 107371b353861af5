package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type nested struct {
	Entries int     `json:"entries"`
	Load    float64 `json:"load"`
}

type report struct {
	Name     string        `json:"name"`
	Took     time.Duration `json:"took"`
	Summary  nested        `json:"summary"`
	Internal string        `json:"-"`
	Detail   string        `json:"detail" table:"wide"`
	hidden   int
}

func render(t *testing.T, f *TableFormatter, data any) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestTableFormatter_Struct(t *testing.T) {
	r := &report{
		Name:    "run",
		Took:    1500 * time.Millisecond,
		Summary: nested{Entries: 3, Load: 0.25},
		Detail:  "more",
		hidden:  1,
	}

	lines := render(t, &TableFormatter{}, r)
	want := map[string]string{
		"name":            "run",
		"took":            "1.5s",
		"summary.entries": "3",
		"summary.load":    "0.2500",
	}
	if len(lines) != len(want)+1 {
		t.Fatalf("got %d lines:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if fields := strings.Fields(lines[0]); fields[0] != "FIELD" || fields[1] != "VALUE" {
		t.Errorf("header = %q", lines[0])
	}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if want[fields[0]] != fields[1] {
			t.Errorf("row %q: got %q, want %q", fields[0], fields[1], want[fields[0]])
		}
	}

	wide := render(t, &TableFormatter{Wide: true}, r)
	if !strings.Contains(strings.Join(wide, "\n"), "detail") {
		t.Error("wide mode should include wide columns")
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	rows := []*report{
		{Name: "a", Took: time.Millisecond},
		nil,
		{Name: "b", Took: 2 * time.Second},
	}
	lines := render(t, &TableFormatter{}, rows)

	if got := strings.Fields(lines[0]); strings.Join(got, " ") != "NAME TOOK SUMMARY" {
		t.Errorf("headers = %v", got)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[1], "a ") || !strings.HasPrefix(lines[2], "b ") {
		t.Errorf("rows = %q", lines[1:])
	}
	if !strings.Contains(lines[1], `{"entries":0,"load":0}`) {
		t.Errorf("nested struct cell = %q", lines[1])
	}
}

func TestTableFormatter_Map(t *testing.T) {
	lines := render(t, &TableFormatter{NoHeaders: true}, map[string]int{"b": 2, "a": 1})
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "a") || !strings.HasPrefix(lines[1], "b") {
		t.Errorf("map rows should be sorted: %q", lines)
	}
}

func TestTableFormatter_Scalars(t *testing.T) {
	lines := render(t, &TableFormatter{}, []string{"x", ""})
	if strings.Join(lines, "|") != "VALUE|x|-" {
		t.Errorf("scalar slice = %q", lines)
	}

	// Non-tabular values fall back to JSON.
	lines = render(t, &TableFormatter{}, 42)
	if lines[0] != "42" {
		t.Errorf("scalar fallback = %q", lines)
	}
}

func TestTable_Render(t *testing.T) {
	tbl := &Table{}
	tbl.SetHeaders("KEY", "VALUE")
	tbl.AddRow("longer-key", "1")
	tbl.AddRow("k", "2")

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatal(err)
	}
	want := "KEY         VALUE\nlonger-key  1\nk           2\n"
	if buf.String() != want {
		t.Errorf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{1234567 * time.Microsecond, "1.235s"},
		{1234567 * time.Nanosecond, "1.235ms"},
		{1500 * time.Nanosecond, "1.5µs"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
