package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerScoreboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/scoreboard", handler.GetScoreboard)

	mux.HandleFunc("GET /v1/clock", handler.GetClock)
	mux.HandleFunc("POST /v1/clock/actions", handler.ApplyClockAction)

	mux.HandleFunc("GET /v1/teams/{slot}", handler.GetTeam)
	mux.HandleFunc("POST /v1/teams/{slot}/actions", handler.ApplyTeamAction)
	mux.HandleFunc("GET /v1/teams/{slot}/history", handler.ListTeamHistory)
	mux.HandleFunc("DELETE /v1/teams/{slot}/history/{index}", handler.DeleteTeamHistoryEntry)
}
