package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-scoreboard/internal/infrastructure/repository/memory"
)

func TestRun_GetSetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewKVStore(nil)
	var out bytes.Buffer

	if err := run(ctx, store, []string{"set", "Time A-corners", "4"}, &out); err != nil {
		t.Fatalf("set: %v", err)
	}
	out.Reset()
	if err := run(ctx, store, []string{"get", "Time A-corners"}, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "4" {
		t.Fatalf("unexpected value: %q", got)
	}
	if err := run(ctx, store, []string{"delete", "Time A-corners"}, &out); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := run(ctx, store, []string{"get", "Time A-corners"}, &out); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestRun_DumpAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewKVStore(map[string]string{
		"Time A-corners": "2",
		"team1-stats":    "[]",
	})
	var out bytes.Buffer

	if err := run(ctx, store, []string{"dump"}, &out); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(out.String(), `"Time A-corners": "2"`) {
		t.Fatalf("unexpected dump output: %s", out.String())
	}

	out.Reset()
	if err := run(ctx, store, []string{"clear"}, &out); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !strings.Contains(out.String(), "cleared 2 key(s)") {
		t.Fatalf("unexpected clear output: %s", out.String())
	}
	keys, _ := store.Keys(ctx)
	if len(keys) != 0 {
		t.Fatalf("expected empty store, got %v", keys)
	}
}

func TestRun_RekeyMovesCountersOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewKVStore(map[string]string{
		"Time A-corners": "3",
		"Time A-shots":   "5",
		"team1-stats":    "[]",
	})
	var out bytes.Buffer

	if err := run(ctx, store, []string{"rekey", "Time A", "home"}, &out); err != nil {
		t.Fatalf("rekey: %v", err)
	}

	for key, want := range map[string]string{"home-corners": "3", "home-shots": "5", "team1-stats": "[]"} {
		got, ok, err := store.Get(ctx, key)
		if err != nil || !ok || got != want {
			t.Fatalf("key %s: got=%q ok=%v err=%v", key, got, ok, err)
		}
	}
	if _, ok, _ := store.Get(ctx, "Time A-corners"); ok {
		t.Fatalf("expected old corners key to be removed")
	}
}

func TestRun_RekeyRejectsNonNumericCounter(t *testing.T) {
	t.Parallel()

	store := memory.NewKVStore(map[string]string{"Time A-corners": "abc"})
	if err := run(context.Background(), store, []string{"rekey", "Time A", "home"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for corrupt counter")
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	store := memory.NewKVStore(nil)
	err := run(context.Background(), store, []string{"vacuum"}, &bytes.Buffer{})
	if !crerr.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}
