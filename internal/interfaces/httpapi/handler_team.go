package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/match-scoreboard/internal/usecase"
)

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	slot, err := slotFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.scoreboard.Team(ctx, slot)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(view))
}

func (h *Handler) ApplyTeamAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyTeamAction")
	defer span.End()

	slot, err := slotFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req teamActionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.scoreboard.ApplyTeamAction(ctx, slot, usecase.TeamAction(req.Action))
	if err != nil {
		h.logger.WarnContext(ctx, "apply team action failed", "team_slot", string(slot), "action", req.Action, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(view))
}

func (h *Handler) ListTeamHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamHistory")
	defer span.End()

	slot, err := slotFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.scoreboard.Team(ctx, slot)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, historyToDTO(view.History))
}

// DeleteTeamHistoryEntry answers 200 with the unchanged history when the
// index is out of range.
func (h *Handler) DeleteTeamHistoryEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeamHistoryEntry")
	defer span.End()

	slot, err := slotFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rawIndex := strings.TrimSpace(r.PathValue("index"))
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: history index must be an integer, got %q", usecase.ErrInvalidInput, rawIndex))
		return
	}

	view, err := h.scoreboard.DeleteHistoryEntry(ctx, slot, index)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(view))
}
