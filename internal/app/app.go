package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/match-scoreboard/internal/config"
	"github.com/riskibarqy/match-scoreboard/internal/domain/kvstore"
	"github.com/riskibarqy/match-scoreboard/internal/infrastructure/repository/file"
	"github.com/riskibarqy/match-scoreboard/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-scoreboard/internal/infrastructure/repository/resilient"
	"github.com/riskibarqy/match-scoreboard/internal/interfaces/httpapi"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/match-scoreboard/internal/platform/resilience"
	"github.com/riskibarqy/match-scoreboard/internal/usecase"
)

// App bundles the HTTP server with the scoreboard it serves.
type App struct {
	Server     *http.Server
	Scoreboard *usecase.ScoreboardService

	closeStore func() error
}

// Close stops the match clock ticker and releases the state store. The HTTP
// server is shut down by the caller first.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.Scoreboard != nil {
		a.Scoreboard.Close()
	}
	if a.closeStore != nil {
		return a.closeStore()
	}
	return nil
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	return NewWithClock(ctx, cfg, clockwork.NewRealClock(), logger)
}

func NewWithClock(ctx context.Context, cfg config.Config, clock clockwork.Clock, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, closeStore, err := NewStateStore(cfg, clock, logger)
	if err != nil {
		return nil, err
	}

	scoreboard, err := usecase.NewScoreboardService(ctx, usecase.ScoreboardConfig{
		Teams:        cfg.Teams,
		TickInterval: cfg.ClockTickInterval,
	}, store, clock, logger)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("build scoreboard: %w", err)
	}

	handler := httpapi.NewHandler(scoreboard, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		scoreboard.Close()
		_ = closeStore()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, Scoreboard: scoreboard, closeStore: closeStore}, nil
}

// NewStateStore builds the configured backend and wraps it in the circuit
// breaker when enabled. The returned func releases the backend.
func NewStateStore(cfg config.Config, clock clockwork.Clock, logger *logging.Logger) (kvstore.Store, func() error, error) {
	var (
		store      kvstore.Store
		closeStore = func() error { return nil }
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store = memory.NewKVStore(nil)
	case config.StorageDriverFile, "":
		fileStore, err := file.Open(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open state file: %w", err)
		}
		store, closeStore = fileStore, fileStore.Close
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.StorageCircuitEnabled {
		breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: cfg.StorageCircuitFailureCount,
			OpenTimeout:      cfg.StorageCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StorageCircuitHalfOpenMaxReq,
		}, clock)
		store = resilient.NewKVStore(store, breaker, logger)
	}

	logger.Info("state store ready",
		"driver", cfg.StorageDriver,
		"path", cfg.StoragePath,
		"circuit_enabled", cfg.StorageCircuitEnabled,
	)

	return store, closeStore, nil
}
