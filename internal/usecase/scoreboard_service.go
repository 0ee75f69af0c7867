package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/match-scoreboard/internal/domain/kvstore"
	"github.com/riskibarqy/match-scoreboard/internal/domain/matchclock"
	"github.com/riskibarqy/match-scoreboard/internal/domain/team"
	"github.com/riskibarqy/match-scoreboard/internal/domain/teamstats"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type ClockAction string

const (
	ClockActionStart  ClockAction = "start"
	ClockActionPause  ClockAction = "pause"
	ClockActionToggle ClockAction = "toggle"
	ClockActionReset  ClockAction = "reset"
)

type TeamAction string

const (
	TeamActionCornerIncrement TeamAction = "corner_increment"
	TeamActionCornerDecrement TeamAction = "corner_decrement"
	TeamActionShotIncrement   TeamAction = "shot_increment"
	TeamActionShotDecrement   TeamAction = "shot_decrement"
	TeamActionSave            TeamAction = "save"
	TeamActionReset           TeamAction = "reset"
)

type ClockView struct {
	ElapsedSeconds int
	MatchTime      string
	Running        bool
	Phase          matchclock.Phase
}

type TeamView struct {
	Slot    team.Slot
	Name    string
	Corners int
	Shots   int
	History []teamstats.StatEvent
}

type Scoreboard struct {
	Clock ClockView
	Teams []TeamView
}

type ScoreboardConfig struct {
	Teams        []team.Team
	TickInterval time.Duration
}

// ScoreboardService is the top-level container: it owns the match clock and
// one ledger per team, and hands the clock's current mm:ss to each ledger when
// an event is created. Mutations are serialized; lock order is scoreboard, then
// clock or ledger.
type ScoreboardService struct {
	mu      sync.Mutex
	clock   *ClockService
	ledgers map[team.Slot]*LedgerService
	order   []team.Slot
	logger  *logging.Logger
}

func NewScoreboardService(
	ctx context.Context,
	cfg ScoreboardConfig,
	store kvstore.Store,
	clock clockwork.Clock,
	logger *logging.Logger,
) (*ScoreboardService, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: state store is required", ErrInvalidInput)
	}
	if logger == nil {
		logger = logging.Default()
	}
	if err := validateTeams(cfg.Teams); err != nil {
		return nil, err
	}

	svc := &ScoreboardService{
		clock:   NewClockService(ctx, store, clock, cfg.TickInterval, logger),
		ledgers: make(map[team.Slot]*LedgerService, len(cfg.Teams)),
		order:   make([]team.Slot, 0, len(cfg.Teams)),
		logger:  logger.Named("scoreboard"),
	}
	for _, item := range cfg.Teams {
		svc.ledgers[item.Slot] = NewLedgerService(ctx, item, store, logger)
		svc.order = append(svc.order, item.Slot)
	}

	return svc, nil
}

func validateTeams(teams []team.Team) error {
	if len(teams) != len(team.AllSlots) {
		return fmt.Errorf("%w: expected %d teams, got %d", ErrInvalidInput, len(team.AllSlots), len(teams))
	}

	slots := make(map[team.Slot]struct{}, len(teams))
	counterKeys := make(map[string]team.Slot, len(teams)*2)
	for _, item := range teams {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, exists := slots[item.Slot]; exists {
			return fmt.Errorf("%w: slot %s configured twice", ErrInvalidInput, item.Slot)
		}
		slots[item.Slot] = struct{}{}

		for _, key := range []string{item.CornersKey(), item.ShotsKey()} {
			if other, exists := counterKeys[key]; exists {
				return fmt.Errorf("%w: key %q shared by %s and %s", ErrDuplicateTeamKey, key, other, item.Slot)
			}
			counterKeys[key] = item.Slot
		}
	}

	return nil
}

func (s *ScoreboardService) Clock() *ClockService {
	return s.clock
}

func (s *ScoreboardService) Snapshot(ctx context.Context) Scoreboard {
	_, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.Snapshot")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := Scoreboard{
		Clock: clockView(s.clock.Snapshot()),
		Teams: make([]TeamView, 0, len(s.order)),
	}
	for _, slot := range s.order {
		ledger := s.ledgers[slot]
		out.Teams = append(out.Teams, teamView(ledger.Team(), ledger.Snapshot()))
	}

	return out
}

func (s *ScoreboardService) ClockState(ctx context.Context) ClockView {
	_, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.ClockState")
	defer span.End()

	return clockView(s.clock.Snapshot())
}

func (s *ScoreboardService) ApplyClockAction(ctx context.Context, action ClockAction) (ClockView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.ApplyClockAction",
		attribute.String("action", string(action)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var state matchclock.State
	switch action {
	case ClockActionStart:
		state = s.clock.Start(ctx)
	case ClockActionPause:
		state = s.clock.Pause(ctx)
	case ClockActionToggle:
		state = s.clock.Toggle(ctx)
	case ClockActionReset:
		state = s.clock.Reset(ctx)
	default:
		return ClockView{}, fmt.Errorf("%w: unknown clock action %q", ErrInvalidInput, action)
	}

	return clockView(state), nil
}

func (s *ScoreboardService) Team(ctx context.Context, slot team.Slot) (TeamView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.Team")
	defer span.End()

	ledger, err := s.ledger(slot)
	if err != nil {
		return TeamView{}, err
	}

	return teamView(ledger.Team(), ledger.Snapshot()), nil
}

func (s *ScoreboardService) ApplyTeamAction(ctx context.Context, slot team.Slot, action TeamAction) (TeamView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.ApplyTeamAction",
		attribute.String("team_slot", string(slot)),
		attribute.String("action", string(action)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.ledger(slot)
	if err != nil {
		return TeamView{}, err
	}

	var state teamstats.Ledger
	switch action {
	case TeamActionCornerIncrement:
		state = ledger.IncrementCorner(ctx, s.clock.MatchTime())
	case TeamActionCornerDecrement:
		state = ledger.DecrementCorner(ctx)
	case TeamActionShotIncrement:
		state = ledger.IncrementShot(ctx, s.clock.MatchTime())
	case TeamActionShotDecrement:
		state = ledger.DecrementShot(ctx)
	case TeamActionSave:
		state = ledger.Save(ctx, s.clock.MatchTime())
	case TeamActionReset:
		state = ledger.ResetCounters(ctx)
	default:
		return TeamView{}, fmt.Errorf("%w: unknown team action %q", ErrInvalidInput, action)
	}

	return teamView(ledger.Team(), state), nil
}

func (s *ScoreboardService) DeleteHistoryEntry(ctx context.Context, slot team.Slot, index int) (TeamView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreboardService.DeleteHistoryEntry",
		attribute.String("team_slot", string(slot)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.ledger(slot)
	if err != nil {
		return TeamView{}, err
	}

	state, removed := ledger.DeleteHistoryEntry(ctx, index)
	if !removed {
		s.logger.DebugContext(ctx, "history delete ignored", "team_slot", string(slot), "index", index)
	}

	return teamView(ledger.Team(), state), nil
}

// Close stops the match clock ticker.
func (s *ScoreboardService) Close() {
	s.clock.Close()
}

func (s *ScoreboardService) ledger(slot team.Slot) (*LedgerService, error) {
	ledger, ok := s.ledgers[slot]
	if !ok {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, slot)
	}
	return ledger, nil
}

func clockView(state matchclock.State) ClockView {
	return ClockView{
		ElapsedSeconds: state.ElapsedSeconds,
		MatchTime:      state.Formatted(),
		Running:        state.Running,
		Phase:          state.Phase(),
	}
}

func teamView(item team.Team, ledger teamstats.Ledger) TeamView {
	return TeamView{
		Slot:    item.Slot,
		Name:    item.Name,
		Corners: ledger.LiveCorners,
		Shots:   ledger.LiveShots,
		History: ledger.History,
	}
}
