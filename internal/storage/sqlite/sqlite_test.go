package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	pkgstorage "github.com/goliatone/go-formbuilder/pkg/storage"
)

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, pkgstorage.WithTable("slots"))

	if _, ok, err := store.Get(ctx, "form"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "form", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "form", "two"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := store.Get(ctx, "form")
	if err != nil || !ok || got != "two" {
		t.Fatalf("get: value=%q ok=%v err=%v", got, ok, err)
	}
	if err := store.Remove(ctx, "form"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "form"); ok {
		t.Fatalf("expected key to be removed")
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "forms.db")

	first, err := Open(ctx, pkgstorage.NewOptions(pkgstorage.WithPath(path)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "form", `{"questions":[]}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(ctx, pkgstorage.NewOptions(pkgstorage.WithPath(path)))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	got, ok, err := second.Get(ctx, "form")
	if err != nil || !ok || got != `{"questions":[]}` {
		t.Fatalf("get after reopen: value=%q ok=%v err=%v", got, ok, err)
	}
}

func TestStore_ClosedReturnsErrClosed(t *testing.T) {
	store := openStore(t)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := store.Get(context.Background(), "form"); !errors.Is(err, pkgstorage.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOpen_RejectsBadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.db")
	_, err := Open(context.Background(), pkgstorage.NewOptions(pkgstorage.WithPath(path), pkgstorage.WithTable("kv; DROP")))
	if err == nil {
		t.Fatalf("expected invalid table error")
	}
}

func openStore(t *testing.T, options ...pkgstorage.Option) *Store {
	t.Helper()
	options = append(options, pkgstorage.WithPath(filepath.Join(t.TempDir(), "forms.db")))
	store, err := Open(context.Background(), pkgstorage.NewOptions(options...))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
