package disk

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/atelierhq/sewtrack-backend/pkg/storage"
)

func TestSaveOpenDelete(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "codes/abc.png", strings.NewReader("payload")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rc, err := store.Open(ctx, "codes/abc.png")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, "codes/abc.png"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Open(ctx, "codes/abc.png"); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteMissingKeyIsNoOp(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := store.Delete(context.Background(), "defects/never-there.jpg"); err != nil {
		t.Fatalf("deleting a missing key should succeed, got %v", err)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := store.Save(context.Background(), "../outside.txt", strings.NewReader("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}
