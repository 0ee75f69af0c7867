package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/match-scoreboard/internal/domain/team"
	"github.com/riskibarqy/match-scoreboard/internal/domain/teamstats"
	"github.com/riskibarqy/match-scoreboard/internal/usecase"
)

const maxRequestBodyBytes = 4 << 10

type clockActionRequest struct {
	Action string `json:"action" validate:"required,oneof=start pause toggle reset"`
}

type teamActionRequest struct {
	Action string `json:"action" validate:"required,oneof=corner_increment corner_decrement shot_increment shot_decrement save reset"`
}

type clockDTO struct {
	ElapsedSeconds int    `json:"elapsed_seconds"`
	MatchTime      string `json:"match_time"`
	Running        bool   `json:"running"`
	Phase          string `json:"phase"`
}

type statEventDTO struct {
	Index     int    `json:"index"`
	Corners   int    `json:"corners"`
	Shots     int    `json:"shots"`
	Timestamp string `json:"timestamp"`
	MatchTime string `json:"match_time"`
	Event     string `json:"event"`
	Snapshot  bool   `json:"snapshot"`
}

type teamDTO struct {
	Slot    string         `json:"slot"`
	Name    string         `json:"name"`
	Corners int            `json:"corners"`
	Shots   int            `json:"shots"`
	History []statEventDTO `json:"history"`
}

type scoreboardDTO struct {
	Clock clockDTO  `json:"clock"`
	Teams []teamDTO `json:"teams"`
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := jsoniter.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func slotFromPath(r *http.Request) (team.Slot, error) {
	raw := r.PathValue("slot")
	slot, ok := team.ParseSlot(raw)
	if !ok {
		return "", fmt.Errorf("%w: team=%s", usecase.ErrNotFound, raw)
	}
	return slot, nil
}

func clockToDTO(view usecase.ClockView) clockDTO {
	return clockDTO{
		ElapsedSeconds: view.ElapsedSeconds,
		MatchTime:      view.MatchTime,
		Running:        view.Running,
		Phase:          string(view.Phase),
	}
}

func teamToDTO(view usecase.TeamView) teamDTO {
	return teamDTO{
		Slot:    string(view.Slot),
		Name:    view.Name,
		Corners: view.Corners,
		Shots:   view.Shots,
		History: historyToDTO(view.History),
	}
}

func historyToDTO(events []teamstats.StatEvent) []statEventDTO {
	out := make([]statEventDTO, 0, len(events))
	for i, event := range events {
		out = append(out, statEventDTO{
			Index:     i,
			Corners:   event.Corners,
			Shots:     event.Shots,
			Timestamp: event.Timestamp,
			MatchTime: event.MatchTime,
			Event:     event.Event,
			Snapshot:  event.IsSnapshot(),
		})
	}
	return out
}
