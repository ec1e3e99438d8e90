package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/heritage/pkg/errors"
)

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestOutputFilesCommit(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.png")
	if err := os.WriteFile(a, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	var o outputFiles
	if err := o.add(a, []byte("new a")); err != nil {
		t.Fatal(err)
	}
	if err := o.add(b, []byte("new b")); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(a); string(data) != "old" {
		t.Errorf("target replaced before commit: %q", data)
	}
	if err := o.commit(); err != nil {
		t.Fatal(err)
	}

	for path, want := range map[string]string{a: "new a", b: "new b"} {
		data, err := os.ReadFile(path)
		if err != nil || string(data) != want {
			t.Errorf("%s = %q, %v; want %q", path, data, err, want)
		}
	}
	if names := dirNames(t, dir); len(names) != 2 {
		t.Errorf("leftover files: %v", names)
	}
}

func TestOutputFilesFailedAddLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	var o outputFiles
	if err := o.add(filepath.Join(dir, "first.pdf"), []byte("x")); err != nil {
		t.Fatal(err)
	}
	err := o.add(filepath.Join(dir, "missing", "second.pdf"), []byte("y"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Fatalf("add = %v, want INVALID_PATH", err)
	}
	o.discard()

	if names := dirNames(t, dir); len(names) != 0 {
		t.Errorf("files left after failed batch: %v", names)
	}
}

func TestExportFailedWriteLeavesNoOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "missing", "tree.pdf")
	_, err := run(t, "export", "--records", writeRecords(t, familyJSON), "--root", "1", "-o", out, "-f", "pdf,json")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Fatalf("export = %v, want INVALID_PATH", err)
	}
	if names := dirNames(t, dir); len(names) != 0 {
		t.Errorf("outputs left behind: %v", names)
	}
}
