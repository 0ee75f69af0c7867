package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/match-scoreboard/internal/config"
	"github.com/riskibarqy/match-scoreboard/internal/domain/kvstore"
	"github.com/riskibarqy/match-scoreboard/internal/domain/team"
	"github.com/riskibarqy/match-scoreboard/internal/infrastructure/repository/file"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	_ = godotenv.Load()
	logger := logging.NewJSON(logging.LevelInfo)

	path := strings.TrimSpace(os.Getenv("STORAGE_PATH"))
	if path == "" {
		path = config.DefaultStoragePath
	}

	// The API keeps the document in memory and holds its lock while running;
	// stop it before editing so its next write does not overwrite ours.
	store, err := file.Open(path)
	if err != nil {
		if crerr.Is(err, file.ErrLocked) {
			logger.Error("state file in use, stop the API before running storage commands", "path", path)
		} else {
			logger.Error("open state file", "path", path, "error", err)
		}
		os.Exit(1)
	}

	err = run(context.Background(), store, os.Args[1:], os.Stdout)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("close state file", "path", path, "error", closeErr)
	}
	if err != nil {
		if crerr.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		logger.Error("storage command failed", "command", os.Args[1], "path", path, "error", err)
		os.Exit(1)
	}
}

var errUsage = crerr.New("usage")

func run(ctx context.Context, store kvstore.Store, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	switch cmd {
	case "dump":
		return dump(ctx, store, out)
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("get requires a key argument")
		}
		value, ok, err := store.Get(ctx, args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("key %q not found", args[1])
		}
		_, err = fmt.Fprintln(out, value)
		return err
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("set requires key and value arguments")
		}
		if err := store.Set(ctx, args[1], args[2]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "set %s\n", args[1])
		return err
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("delete requires a key argument")
		}
		if err := store.Delete(ctx, args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "deleted %s\n", args[1])
		return err
	case "clear":
		keys, err := store.Keys(ctx)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := store.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		_, err = fmt.Fprintf(out, "cleared %d key(s)\n", len(keys))
		return err
	case "rekey":
		if len(args) < 3 {
			return fmt.Errorf("rekey requires old and new storage key arguments")
		}
		moved, err := rekey(ctx, store, args[1], args[2])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "moved %d counter(s) from %q to %q\n", moved, args[1], args[2])
		return err
	default:
		return errUsage
	}
}

func dump(ctx context.Context, store kvstore.Store, out io.Writer) error {
	keys, err := store.Keys(ctx)
	if err != nil {
		return err
	}

	doc := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok, err := store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if ok {
			doc[key] = value
		}
	}

	raw, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}

// rekey moves a team's live counters after its display name or storage key
// changed. History is keyed by slot and never moves.
func rekey(ctx context.Context, store kvstore.Store, oldKey, newKey string) (int, error) {
	oldKey, newKey = strings.TrimSpace(oldKey), strings.TrimSpace(newKey)
	if oldKey == "" || newKey == "" {
		return 0, fmt.Errorf("storage keys cannot be empty")
	}
	if oldKey == newKey {
		return 0, nil
	}

	from := team.Team{Slot: team.SlotTeam1, Name: oldKey}
	to := team.Team{Slot: team.SlotTeam1, Name: newKey}
	pairs := [][2]string{
		{from.CornersKey(), to.CornersKey()},
		{from.ShotsKey(), to.ShotsKey()},
	}

	moved := 0
	for _, pair := range pairs {
		value, ok, err := store.Get(ctx, pair[0])
		if err != nil {
			return moved, fmt.Errorf("read %s: %w", pair[0], err)
		}
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(value); err != nil {
			return moved, fmt.Errorf("counter %s holds non-numeric value %q", pair[0], value)
		}
		if err := store.Set(ctx, pair[1], value); err != nil {
			return moved, fmt.Errorf("write %s: %w", pair[1], err)
		}
		if err := store.Delete(ctx, pair[0]); err != nil {
			return moved, fmt.Errorf("delete %s: %w", pair[0], err)
		}
		moved++
	}

	return moved, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: storage <dump|get|set|delete|clear|rekey> [args]")
	fmt.Fprintln(w, "  dump                 print every key as JSON")
	fmt.Fprintln(w, "  get <key>            print one value")
	fmt.Fprintln(w, "  set <key> <value>    write one value")
	fmt.Fprintln(w, "  delete <key>         remove one key")
	fmt.Fprintln(w, "  clear                remove every key")
	fmt.Fprintln(w, "  rekey <old> <new>    move a team's corner and shot counters")
	fmt.Fprintln(w, "env: STORAGE_PATH (default data/scoreboard.json)")
	fmt.Fprintln(w, "the API must be stopped first; it holds the state file lock while running")
}
