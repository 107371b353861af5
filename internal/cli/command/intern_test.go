package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInternCommand(t *testing.T) {
	a := writeFile(t, "a.txt", "the quick brown fox\njumps over the lazy dog\n")
	b := writeFile(t, "b.txt", "the end")

	out, _, err := runApp(t, nil, "", "-o", "json", "-q", "intern", "--top", "2", a, b)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var report InternReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if report.Files != 2 {
		t.Errorf("Files = %d, want 2", report.Files)
	}
	if report.Words != 11 {
		t.Errorf("Words = %d, want 11", report.Words)
	}
	if report.Distinct != 9 {
		t.Errorf("Distinct = %d, want 9", report.Distinct)
	}
	if report.Table.Entries != 9 {
		t.Errorf("Table.Entries = %d, want 9", report.Table.Entries)
	}
	if report.Bytes != int64(len("the quick brown fox\njumps over the lazy dog\n")+len("the end")) {
		t.Errorf("Bytes = %d", report.Bytes)
	}
	want := []WordCount{{Word: "the", Count: 3}, {Word: "brown", Count: 1}}
	if len(report.Top) != len(want) {
		t.Fatalf("Top = %+v, want %+v", report.Top, want)
	}
	for i := range want {
		if report.Top[i] != want[i] {
			t.Errorf("Top[%d] = %+v, want %+v", i, report.Top[i], want[i])
		}
	}
}

func TestInternCommand_Stdin(t *testing.T) {
	out, stderr, err := runApp(t, nil, "a b a", "intern", "-")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "distinct") {
		t.Errorf("table output missing summary:\n%s", out)
	}
	if !strings.Contains(out, "WORD") {
		t.Errorf("table output missing top words:\n%s", out)
	}
	if !strings.Contains(stderr.String(), "-") {
		t.Errorf("progress not drawn:\n%s", stderr.String())
	}
}

func TestInternCommand_Errors(t *testing.T) {
	if _, _, err := runApp(t, nil, "", "intern"); err == nil {
		t.Error("expected error without files")
	}
	if _, _, err := runApp(t, nil, "", "-q", "intern", filepath.Join(t.TempDir(), "missing")); !os.IsNotExist(err) {
		t.Errorf("err = %v, want not exist", err)
	}
}
