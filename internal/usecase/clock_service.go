package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/match-scoreboard/internal/domain/kvstore"
	"github.com/riskibarqy/match-scoreboard/internal/domain/matchclock"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultTickInterval = time.Second

// ClockService owns the match clock and its ticker. At most one ticker
// goroutine runs at a time; every path that stops the clock cancels it and
// waits for it to exit.
type ClockService struct {
	store    kvstore.Store
	clock    clockwork.Clock
	interval time.Duration
	logger   *logging.Logger

	mu         sync.Mutex
	state      matchclock.State
	generation uint64
	cancel     context.CancelFunc
	workers    *conc.WaitGroup
	closed     bool
}

func NewClockService(
	ctx context.Context,
	store kvstore.Store,
	clock clockwork.Clock,
	interval time.Duration,
	logger *logging.Logger,
) *ClockService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("clock")

	elapsed := loadCounter(ctx, store, matchclock.StorageKey, logger)
	logger.InfoContext(ctx, "match clock restored", "elapsed_seconds", elapsed)

	return &ClockService{
		store:    store,
		clock:    clock,
		interval: interval,
		logger:   logger,
		state:    matchclock.State{ElapsedSeconds: elapsed},
	}
}

func (s *ClockService) Snapshot() matchclock.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// MatchTime is the formatted mm:ss value stamped on new history entries.
func (s *ClockService) MatchTime() string {
	return s.Snapshot().Formatted()
}

func (s *ClockService) Start(ctx context.Context) matchclock.State {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.Start")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Running || s.closed {
		return s.state
	}

	s.state = matchclock.Start(s.state)
	s.startTickerLocked()
	s.logger.InfoContext(ctx, "match clock started", "elapsed_seconds", s.state.ElapsedSeconds)

	return s.state
}

func (s *ClockService) Pause(ctx context.Context) matchclock.State {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.Pause")
	defer span.End()

	s.mu.Lock()
	if !s.state.Running {
		state := s.state
		s.mu.Unlock()
		return state
	}

	s.state = matchclock.Pause(s.state)
	stop := s.detachTickerLocked()
	state := s.state
	s.mu.Unlock()

	stop()
	s.logger.InfoContext(ctx, "match clock paused", "elapsed_seconds", state.ElapsedSeconds)

	return state
}

func (s *ClockService) Toggle(ctx context.Context) matchclock.State {
	if s.Snapshot().Running {
		return s.Pause(ctx)
	}
	return s.Start(ctx)
}

// Reset stops the clock from either phase and persists zero immediately.
func (s *ClockService) Reset(ctx context.Context) matchclock.State {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockService.Reset")
	defer span.End()

	s.mu.Lock()
	s.state = matchclock.Reset(s.state)
	stop := s.detachTickerLocked()
	persist(ctx, s.store, matchclock.StorageKey, formatCounter(0), s.logger)
	state := s.state
	s.mu.Unlock()

	stop()
	s.logger.InfoContext(ctx, "match clock reset")

	return state
}

// Close stops the ticker for good. Later Start calls are ignored.
func (s *ClockService) Close() {
	s.mu.Lock()
	s.closed = true
	s.state = matchclock.Pause(s.state)
	stop := s.detachTickerLocked()
	s.mu.Unlock()

	stop()
}

func (s *ClockService) startTickerLocked() {
	s.generation++
	generation := s.generation

	tickCtx, cancel := context.WithCancel(context.Background())
	ticker := s.clock.NewTicker(s.interval)
	workers := conc.NewWaitGroup()
	workers.Go(func() {
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.Chan():
				s.tick(tickCtx, generation)
			}
		}
	})

	s.cancel = cancel
	s.workers = workers
}

// detachTickerLocked invalidates the running ticker and returns a func that
// cancels it and waits for its goroutine. Call the func after releasing s.mu.
func (s *ClockService) detachTickerLocked() func() {
	s.generation++
	cancel, workers := s.cancel, s.workers
	s.cancel, s.workers = nil, nil

	return func() {
		if cancel == nil {
			return
		}
		cancel()
		workers.Wait()
	}
}

func (s *ClockService) tick(ctx context.Context, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}

	next := matchclock.Tick(s.state)
	if next == s.state {
		return
	}
	s.state = next

	_, span := startUsecaseSpan(ctx, "usecase.ClockService.tick",
		attribute.Int("elapsed_seconds", next.ElapsedSeconds),
	)
	defer span.End()

	persist(ctx, s.store, matchclock.StorageKey, formatCounter(next.ElapsedSeconds), s.logger)
	s.logger.DebugContext(ctx, "match clock tick", "elapsed_seconds", next.ElapsedSeconds)
}
