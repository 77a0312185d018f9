package httpapi

import "net/http"

// handle registers h and labels requests with the matched pattern.
func handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setRouteLabel(r.Context(), pattern)
		h.ServeHTTP(w, r)
	}))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	handle(mux, "GET /api/health", http.HandlerFunc(handler.Health))
	if opts.MetricsHandler != nil {
		handle(mux, "GET /metrics", opts.MetricsHandler)
	}
	if !opts.SwaggerEnabled {
		return
	}

	handle(mux, "GET /openapi.yaml", http.HandlerFunc(handler.OpenAPI))
	handle(mux, "GET /docs", http.HandlerFunc(handler.SwaggerUI))
	handle(mux, "GET /docs/", http.HandlerFunc(handler.SwaggerUI))
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	handle(mux, "GET /api/games", http.HandlerFunc(handler.ListGames))
	handle(mux, "GET /api/today-players", http.HandlerFunc(handler.TodayPlayers))
	handle(mux, "GET /api/live-scores", http.HandlerFunc(handler.LiveScores))
	handle(mux, "GET /api/boxscore/{gameID}", http.HandlerFunc(handler.GetBoxScore))
	handle(mux, "GET /api/stats/leaders", http.HandlerFunc(handler.ListScoringLeaders))
	handle(mux, "GET /api/stats/{teamID}", http.HandlerFunc(handler.GetTeamAverages))
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler, users UserLookup) {
	handle(mux, "POST /api/users", http.HandlerFunc(handler.RegisterUser))
	handle(mux, "GET /api/picks/{date}", RequireUser(users, http.HandlerFunc(handler.GetPick)))
	handle(mux, "PUT /api/picks/{date}", RequireUser(users, http.HandlerFunc(handler.SavePick)))
	handle(mux, "POST /api/picks/{date}/toggle", RequireUser(users, http.HandlerFunc(handler.TogglePick)))
}

func registerLeaderboardRoutes(mux *http.ServeMux, handler *Handler) {
	handle(mux, "GET /api/leaderboard", http.HandlerFunc(handler.GetLeaderboard))
	handle(mux, "GET /api/results", http.HandlerFunc(handler.GetResults))
}
