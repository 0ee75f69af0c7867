package usecase

import (
	"context"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-scoreboard/internal/domain/kvstore"
	"github.com/riskibarqy/match-scoreboard/internal/domain/teamstats"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
)

// TimestampLayout renders the wall-clock time stored on each history entry.
const TimestampLayout = "15:04:05"

func parseCounter(key, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, crerr.Mark(crerr.Wrapf(err, "parse counter %s", key), ErrPersistedStateCorrupt)
	}
	if value < 0 {
		return 0, crerr.Mark(crerr.Newf("counter %s is negative: %d", key, value), ErrPersistedStateCorrupt)
	}
	return value, nil
}

func formatCounter(value int) string {
	return strconv.Itoa(value)
}

func decodeHistory(key, raw string) ([]teamstats.StatEvent, error) {
	var events []teamstats.StatEvent
	if err := sonic.UnmarshalString(raw, &events); err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "decode history %s", key), ErrPersistedStateCorrupt)
	}
	return events, nil
}

func encodeHistory(events []teamstats.StatEvent) (string, error) {
	if events == nil {
		events = []teamstats.StatEvent{}
	}
	out, err := sonic.MarshalString(events)
	if err != nil {
		return "", crerr.Wrap(err, "encode history")
	}
	return out, nil
}

// loadCounter falls back to 0 when the key is missing, unreadable or corrupt.
func loadCounter(ctx context.Context, store kvstore.Store, key string, logger *logging.Logger) int {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "read persisted counter failed", "key", key, "error", err)
		return 0
	}
	if !ok {
		return 0
	}

	value, err := parseCounter(key, raw)
	if err != nil {
		logger.WarnContext(ctx, "persisted counter corrupt, using default", "key", key, "raw", raw, "error", err)
		return 0
	}
	return value
}

// loadHistory falls back to an empty history when the key is missing,
// unreadable or corrupt.
func loadHistory(ctx context.Context, store kvstore.Store, key string, logger *logging.Logger) []teamstats.StatEvent {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "read persisted history failed", "key", key, "error", err)
		return []teamstats.StatEvent{}
	}
	if !ok {
		return []teamstats.StatEvent{}
	}

	events, err := decodeHistory(key, raw)
	if err != nil {
		logger.WarnContext(ctx, "persisted history corrupt, using default", "key", key, "error", err)
		return []teamstats.StatEvent{}
	}
	if events == nil {
		events = []teamstats.StatEvent{}
	}
	return events
}

// persist writes are fire-and-forget: failures are logged, never returned.
// The write outlives the caller's cancellation so memory and store stay in step
// when a client goes away mid-request.
func persist(ctx context.Context, store kvstore.Store, key, value string, logger *logging.Logger) {
	if err := store.Set(context.WithoutCancel(ctx), key, value); err != nil {
		logger.ErrorContext(ctx, "persist state failed", "key", key, "error", err)
	}
}
