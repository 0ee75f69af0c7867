package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/match-scoreboard/internal/usecase"
)

type Handler struct {
	scoreboard *usecase.ScoreboardService
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(scoreboard *usecase.ScoreboardService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scoreboard: scoreboard,
		logger:     logger.Named("httpapi"),
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	board := h.scoreboard.Snapshot(ctx)

	teams := make([]teamDTO, 0, len(board.Teams))
	for _, item := range board.Teams {
		teams = append(teams, teamToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, scoreboardDTO{
		Clock: clockToDTO(board.Clock),
		Teams: teams,
	})
}
