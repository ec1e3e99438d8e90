// Package blobtest runs a shared conformance suite against blob stores.
package blobtest

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/heritage/pkg/blob"
	"github.com/matzehuels/heritage/pkg/errors"
)

// Run exercises put, get, head, list and delete on an empty store.
func Run(t *testing.T, s blob.Store) {
	t.Helper()
	ctx := context.Background()

	info, err := s.Put(ctx, "exports/1/a.pdf", strings.NewReader("%PDF-1.4"), blob.PutOptions{
		ContentType: "application/pdf",
		Metadata:    map[string]string{"root": "1"},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Size != 8 || info.ContentType != "application/pdf" {
		t.Errorf("Put info = %+v", info)
	}

	if _, err := s.Put(ctx, "exports/1/a.pdf", strings.NewReader("x"), blob.PutOptions{}); !stderrors.Is(err, blob.ErrExists) {
		t.Errorf("second Put err = %v, want ErrExists", err)
	}
	if _, err := s.Put(ctx, "../escape", strings.NewReader("x"), blob.PutOptions{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Put traversal err = %v, want INVALID_PATH", err)
	}

	got, rc, err := s.Get(ctx, "exports/1/a.pdf")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "%PDF-1.4" {
		t.Errorf("Get body = %q", body)
	}
	if got.Metadata["root"] != "1" {
		t.Errorf("Get metadata = %v", got.Metadata)
	}

	if _, err := s.Put(ctx, "exports/2/b.png", strings.NewReader("png"), blob.PutOptions{ContentType: "image/png"}); err != nil {
		t.Fatalf("Put b: %v", err)
	}
	list, err := s.List(ctx, "exports/1/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Key != "exports/1/a.pdf" {
		t.Errorf("List = %+v", list)
	}
	all, _ := s.List(ctx, "exports/")
	if len(all) != 2 {
		t.Errorf("List all = %d entries, want 2", len(all))
	}

	existed, err := s.Delete(ctx, "exports/1/a.pdf")
	if err != nil || !existed {
		t.Errorf("Delete = %v, %v", existed, err)
	}
	existed, err = s.Delete(ctx, "exports/1/a.pdf")
	if err != nil || existed {
		t.Errorf("second Delete = %v, %v", existed, err)
	}
	if _, err := s.Head(ctx, "exports/1/a.pdf"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Head after delete err = %v, want NOT_FOUND", err)
	}
	if _, _, err := s.Get(ctx, "exports/1/a.pdf"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after delete err = %v, want NOT_FOUND", err)
	}
}
