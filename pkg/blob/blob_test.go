package blob

import (
	"regexp"
	"testing"
)

func TestExportKey(t *testing.T) {
	re := regexp.MustCompile(`^exports/7/[0-9a-f-]{36}\.pdf$`)
	a, b := ExportKey(7, "pdf"), ExportKey(7, "pdf")
	if !re.MatchString(a) {
		t.Errorf("ExportKey = %q", a)
	}
	if a == b {
		t.Errorf("ExportKey returned %q twice", a)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"pdf":  "application/pdf",
		"png":  "image/png",
		"json": "application/json",
		"bin":  "application/octet-stream",
	}
	for ext, want := range tests {
		if got := ContentType(ext); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestCloneMetadata(t *testing.T) {
	if CloneMetadata(nil) != nil {
		t.Error("CloneMetadata(nil) should be nil")
	}
	src := map[string]string{"root": "1"}
	dst := CloneMetadata(src)
	dst["root"] = "2"
	if src["root"] != "1" {
		t.Error("clone aliases source map")
	}
}
