package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	data := `{"members":[{"serNo":1,"name":"Ram","gender":"Male","level":1,"sonDaughterCount":0,"childrenSerNos":[]}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	rs, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rs.Len() != 1 {
		t.Errorf("Len = %d, want 1", rs.Len())
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New("unused.json").Load(ctx); err != context.Canceled {
		t.Errorf("Load err = %v, want context.Canceled", err)
	}
}
