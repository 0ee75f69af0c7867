package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestKVStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Set(ctx, "Time A-corners", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "team1-stats", `[{"corners":0,"shots":0,"timestamp":"10:00:00","matchTime":"00:05","event":"Escanteio"}]`); err != nil {
		t.Fatalf("set history: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, ok, err := reopened.Get(ctx, "Time A-corners")
	if err != nil || !ok || got != "7" {
		t.Fatalf("unexpected value after reopen: %q ok=%v err=%v", got, ok, err)
	}
	history, _, _ := reopened.Get(ctx, "team1-stats")
	if !strings.Contains(history, `"matchTime":"00:05"`) {
		t.Fatalf("history not preserved verbatim: %s", history)
	}
}

func TestKVStore_DeleteAndKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_ = store.Set(ctx, "match-time", "12")
	_ = store.Set(ctx, "B-shots", "1")
	if err := store.Delete(ctx, "match-time"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "B-shots" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	_ = store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, ok, _ := reopened.Get(ctx, "match-time"); ok {
		t.Fatalf("deleted key came back after reopen")
	}
}

func TestKVStore_NoTempFilesLeftBehind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	for i := 0; i < 5; i++ {
		_ = store.Set(context.Background(), "match-time", string(rune('0'+i)))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 || entries[0].Name() != "state.json" || entries[1].Name() != "state.json.lock" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected files: %v", names)
	}
}

func TestOpen_CorruptDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestKVStore_CanceledContext(t *testing.T) {
	t.Parallel()

	store, err := Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Set(ctx, "k", "v"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestOpen_ExclusiveWhileOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	owner, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked for second opener, got %v", err)
	}

	if err := owner.Set(ctx, "ABC-corners", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := owner.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := owner.Set(ctx, "ABC-corners", "3"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}

	next, err := Open(path)
	if err != nil {
		t.Fatalf("open after close: %v", err)
	}
	defer next.Close()
	got, _, _ := next.Get(ctx, "ABC-corners")
	if got != "2" {
		t.Fatalf("unexpected value: %q", got)
	}
}
