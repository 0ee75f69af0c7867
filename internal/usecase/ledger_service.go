package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/match-scoreboard/internal/domain/kvstore"
	"github.com/riskibarqy/match-scoreboard/internal/domain/team"
	"github.com/riskibarqy/match-scoreboard/internal/domain/teamstats"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LedgerService owns one team's live counters and event history and mirrors
// every change into the store.
type LedgerService struct {
	team   team.Team
	store  kvstore.Store
	logger *logging.Logger
	now    func() time.Time

	mu     sync.Mutex
	ledger teamstats.Ledger
}

// NewLedgerService rehydrates the ledger from the store. Missing or corrupt
// entries fall back to zero counters and an empty history.
func NewLedgerService(ctx context.Context, item team.Team, store kvstore.Store, logger *logging.Logger) *LedgerService {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("ledger").With("team_slot", string(item.Slot), "team_name", item.Name)

	ledger := teamstats.Ledger{
		LiveCorners: loadCounter(ctx, store, item.CornersKey(), logger),
		LiveShots:   loadCounter(ctx, store, item.ShotsKey(), logger),
		History:     loadHistory(ctx, store, item.HistoryKey(), logger),
	}
	logger.InfoContext(ctx, "team ledger restored",
		"corners", ledger.LiveCorners,
		"shots", ledger.LiveShots,
		"history_len", len(ledger.History),
	)

	return &LedgerService{
		team:   item,
		store:  store,
		logger: logger,
		now:    time.Now,
		ledger: ledger,
	}
}

func (s *LedgerService) Team() team.Team {
	return s.team
}

func (s *LedgerService) Snapshot() teamstats.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Clone()
}

func (s *LedgerService) IncrementCorner(ctx context.Context, matchTime string) teamstats.Ledger {
	ctx, span := s.startSpan(ctx, "usecase.LedgerService.IncrementCorner")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.IncrementCorner(s.stamp(matchTime))
	s.persistCornersLocked(ctx)
	s.persistHistoryLocked(ctx)
	s.logger.DebugContext(ctx, "corner recorded", "match_time", matchTime, "corners", s.ledger.LiveCorners)

	return s.ledger.Clone()
}

func (s *LedgerService) DecrementCorner(ctx context.Context) teamstats.Ledger {
	ctx, span := s.startSpan(ctx, "usecase.LedgerService.DecrementCorner")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.DecrementCorner()
	s.persistCornersLocked(ctx)

	return s.ledger.Clone()
}

func (s *LedgerService) IncrementShot(ctx context.Context, matchTime string) teamstats.Ledger {
	ctx, span := s.startSpan(ctx, "usecase.LedgerService.IncrementShot")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.IncrementShot(s.stamp(matchTime))
	s.persistShotsLocked(ctx)
	s.persistHistoryLocked(ctx)
	s.logger.DebugContext(ctx, "shot recorded", "match_time", matchTime, "shots", s.ledger.LiveShots)

	return s.ledger.Clone()
}

func (s *LedgerService) DecrementShot(ctx context.Context) teamstats.Ledger {
	ctx, span := s.startSpan(ctx, "usecase.LedgerService.DecrementShot")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.DecrementShot()
	s.persistShotsLocked(ctx)

	return s.ledger.Clone()
}

// Save appends a snapshot of both counters. Counters are left as they are.
func (s *LedgerService) Save(ctx context.Context, matchTime string) teamstats.Ledger {
	ctx, span := s.startSpan(ctx, "usecase.LedgerService.Save")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	event := s.ledger.Save(s.stamp(matchTime))
	s.persistHistoryLocked(ctx)
	s.logger.InfoContext(ctx, "stats snapshot saved",
		"match_time", matchTime,
		"corners", event.Corners,
		"shots", event.Shots,
	)

	return s.ledger.Clone()
}

func (s *LedgerService) ResetCounters(ctx context.Context) teamstats.Ledger {
	ctx, span := s.startSpan(ctx, "usecase.LedgerService.ResetCounters")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.ResetCounters()
	s.persistCornersLocked(ctx)
	s.persistShotsLocked(ctx)

	return s.ledger.Clone()
}

// DeleteHistoryEntry removes one history row. An out-of-range index is a
// silent no-op and reports removed=false.
func (s *LedgerService) DeleteHistoryEntry(ctx context.Context, index int) (teamstats.Ledger, bool) {
	ctx, span := s.startSpan(ctx, "usecase.LedgerService.DeleteHistoryEntry", attribute.Int("index", index))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.ledger.DeleteHistoryEntry(index)
	if removed {
		s.persistHistoryLocked(ctx)
	}

	return s.ledger.Clone(), removed
}

func (s *LedgerService) stamp(matchTime string) teamstats.Stamp {
	return teamstats.Stamp{
		Timestamp: s.now().Format(TimestampLayout),
		MatchTime: matchTime,
	}
}

func (s *LedgerService) persistCornersLocked(ctx context.Context) {
	persist(ctx, s.store, s.team.CornersKey(), formatCounter(s.ledger.LiveCorners), s.logger)
}

func (s *LedgerService) persistShotsLocked(ctx context.Context) {
	persist(ctx, s.store, s.team.ShotsKey(), formatCounter(s.ledger.LiveShots), s.logger)
}

func (s *LedgerService) persistHistoryLocked(ctx context.Context) {
	raw, err := encodeHistory(s.ledger.History)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode history failed", "error", err)
		return
	}
	persist(ctx, s.store, s.team.HistoryKey(), raw, s.logger)
}

func (s *LedgerService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("team_slot", string(s.team.Slot)))
	return startUsecaseSpan(ctx, name, attrs...)
}
