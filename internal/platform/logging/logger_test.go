package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).With("team_slot", "team1")

	logger.Warn("persisted state corrupt", "key", "ABC-corners", "error", errors.New("bad int"))

	var line map[string]any
	if err := sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got := line["msg"]; got != "persisted state corrupt" {
		t.Fatalf("unexpected msg: %v", got)
	}
	if got := line["team_slot"]; got != "team1" {
		t.Fatalf("expected team_slot field, got %v", got)
	}
	if got := line["key"]; got != "ABC-corners" {
		t.Fatalf("expected key field, got %v", got)
	}
	if got, _ := line["error"].(string); got != "bad int" {
		t.Fatalf("expected error field, got %v", line["error"])
	}
	if got := line["level"]; got != "WARN" {
		t.Fatalf("expected WARN level, got %v", got)
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)

	logger.Info("clock tick", "elapsed_seconds", 10)
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}

func TestLogger_MirrorReceivesRecords(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
		if len(args) != 4 {
			t.Errorf("expected inherited and call fields, got %v", args)
		}
	})
	defer SetMirror(nil)

	logger := NewJSONWriter(&bytes.Buffer{}, LevelInfo).With("component", "clock")
	logger.InfoContext(context.Background(), "clock started", "elapsed_seconds", 0)
	logger.DebugContext(context.Background(), "filtered")

	if strings.Join(got, ",") != "info:clock started" {
		t.Fatalf("unexpected mirrored records: %v", got)
	}
}

func TestLogger_NilIsSafe(t *testing.T) {
	var logger *Logger
	logger.Info("nil logger falls back to default")
	if logger.Sync() != nil {
		t.Fatalf("expected nil sync error for nil logger")
	}
}
