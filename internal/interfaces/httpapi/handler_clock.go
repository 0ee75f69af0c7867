package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-scoreboard/internal/usecase"
)

func (h *Handler) GetClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClock")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, clockToDTO(h.scoreboard.ClockState(ctx)))
}

func (h *Handler) ApplyClockAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyClockAction")
	defer span.End()

	var req clockActionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.scoreboard.ApplyClockAction(ctx, usecase.ClockAction(req.Action))
	if err != nil {
		h.logger.WarnContext(ctx, "apply clock action failed", "action", req.Action, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clockToDTO(view))
}
