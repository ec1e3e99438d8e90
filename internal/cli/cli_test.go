package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/heritage/pkg/errors"
)

const familyJSON = `{"members": [
  {"serNo": 1, "name": "Ram", "gender": "Male", "level": 1, "spouse": {"name": "Sita", "serNo": 4}, "childrenSerNos": [2, 3]},
  {"serNo": 2, "name": "Lav", "gender": "Male", "level": 2, "fatherSerNo": 1, "childrenSerNos": [5]},
  {"serNo": 3, "name": "Kush", "gender": "Male", "level": 2, "fatherSerNo": 1, "childrenSerNos": []},
  {"serNo": 4, "name": "Sita", "gender": "Female", "level": 1, "spouse": {"name": "Ram", "serNo": 1}, "childrenSerNos": []},
  {"serNo": 5, "name": "Atithi", "level": 3, "fatherSerNo": 2, "biography": "Ruled Ayodhya.", "childrenSerNos": []}
]}`

func writeRecords(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns what was written to
// the command output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HERITAGE_SOURCE", "")
	t.Setenv("HERITAGE_CACHE_DRIVER", "memory")

	c := New(io.Discard, LogInfo)
	var out bytes.Buffer
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTreeCommand(t *testing.T) {
	records := writeRecords(t, familyJSON)

	out, err := run(t, "tree", "--records", records, "--root", "1")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], markExpanded+"Ram (#1)") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "    "+markLeaf+"Atithi (#5)") {
		t.Errorf("line 2 = %q", lines[2])
	}

	out, err = run(t, "tree", "--records", records, "--root", "1", "--collapse", "2")
	if err != nil {
		t.Fatalf("tree --collapse: %v", err)
	}
	if strings.Contains(out, "Atithi") {
		t.Errorf("collapsed output still lists Atithi:\n%s", out)
	}
	if !strings.Contains(out, markCollapsed+"Lav (#2)") {
		t.Errorf("collapsed output lacks folded Lav:\n%s", out)
	}
}

func TestRootsCommand(t *testing.T) {
	out, err := run(t, "roots", "--records", writeRecords(t, familyJSON))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"1\tRam\t3 descendants", "4\tSita\t0 descendants"} {
		if !strings.Contains(out, want) {
			t.Errorf("roots output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	clean := writeRecords(t, familyJSON)
	if _, err := run(t, "validate", "--records", clean, "--strict"); err != nil {
		t.Errorf("validate clean records: %v", err)
	}

	dangling := writeRecords(t, `[{"serNo": 1, "name": "A", "childrenSerNos": [7]}]`)
	out, err := run(t, "validate", "--records", dangling, "--strict")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("validate --strict = %v, want INVALID_INPUT", err)
	}
	if !strings.Contains(out, "7") {
		t.Errorf("findings do not mention #7:\n%s", out)
	}
}

func TestConvertCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "family.yaml")
	if _, err := run(t, "convert", "--records", writeRecords(t, familyJSON), "-o", out); err != nil {
		t.Fatalf("convert: %v", err)
	}

	// The converted file is itself a record source.
	roots, err := run(t, "roots", "--records", out)
	if err != nil {
		t.Fatalf("roots from yaml: %v", err)
	}
	if !strings.Contains(roots, "1\tRam\t3 descendants") {
		t.Errorf("roots from yaml:\n%s", roots)
	}

	_, err = run(t, "convert", "--records", writeRecords(t, familyJSON), "-o", "family.txt")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("convert to .txt = %v, want INVALID_FORMAT", err)
	}
}

func TestReportAndProfile(t *testing.T) {
	records := writeRecords(t, familyJSON)

	out, err := run(t, "report", "--records", records, "--root", "1")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "--- BEGIN TREE ---") || !strings.Contains(out, "Total members: 4") {
		t.Errorf("report output:\n%s", out)
	}

	docx := filepath.Join(t.TempDir(), "report.docx")
	if _, err := run(t, "report", "--records", records, "--root", "1", "--docx", docx); err != nil {
		t.Fatalf("report --docx: %v", err)
	}
	data, err := os.ReadFile(docx)
	if err != nil || !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("docx not written as a zip archive (err %v)", err)
	}

	out, err = run(t, "profile", "--records", records, "--member", "5")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !strings.Contains(out, "Atithi") || !strings.Contains(out, "Ruled Ayodhya.") {
		t.Errorf("profile output:\n%s", out)
	}

	if _, err := run(t, "profile", "--records", records, "--member", "42"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("profile of missing member = %v, want NOT_FOUND", err)
	}
}

func TestExportCommand(t *testing.T) {
	records := writeRecords(t, familyJSON)
	dir := t.TempDir()
	out := filepath.Join(dir, "ram.pdf")

	if _, err := run(t, "export", "--records", records, "--root", "1", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}

	if _, err := run(t, "export", "--records", records, "--root", "1", "--root", "2",
		"-o", filepath.Join(dir, "batch.pdf"), "--format", "pdf,json"); err != nil {
		t.Fatalf("batch export: %v", err)
	}
	for _, name := range []string{"batch-1.pdf", "batch-1.json", "batch-2.pdf", "batch-2.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestExportRejects(t *testing.T) {
	records := writeRecords(t, familyJSON)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no root", []string{"export", "--records", records}, errors.ErrCodeInvalidInput},
		{"no records", []string{"export", "--root", "1"}, errors.ErrCodeInvalidInput},
		{"missing root", []string{"export", "--records", records, "--root", "99", "-o", filepath.Join(t.TempDir(), "x.pdf")}, errors.ErrCodeNotFound},
		{"bad format", []string{"export", "--records", records, "--root", "1", "--format", "svg"}, errors.ErrCodeInvalidInput},
		{"bad margin", []string{"export", "--records", records, "--root", "1", "--margin", "-5"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCacheAndCompletion(t *testing.T) {
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q, want suffix %q", out, appName)
	}

	if _, err := run(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear: %v", err)
	}

	out, err = run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the binary")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output      string
		root        int
		format      string
		multiRoot   bool
		multiFormat bool
		want        string
	}{
		{"ram.pdf", 1, "pdf", false, false, "ram.pdf"},
		{"", 1, "pdf", false, false, "tree-1.pdf"},
		{"ram.pdf", 1, "json", false, true, "ram.json"},
		{"out/batch.pdf", 7, "png", true, false, "out/batch-7.png"},
		{"", 3, "json", true, true, "tree-3.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.root, tt.format, tt.multiRoot, tt.multiFormat); got != tt.want {
			t.Errorf("outputPath(%q, %d, %q, %v, %v) = %q, want %q",
				tt.output, tt.root, tt.format, tt.multiRoot, tt.multiFormat, got, tt.want)
		}
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("2, 5,7")
	if err != nil || len(ids) != 3 || ids[1] != 5 {
		t.Errorf("parseIDs = %v, %v", ids, err)
	}
	if _, err := parseIDs("2,x"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("parseIDs(bad) = %v, want INVALID_INPUT", err)
	}
}
