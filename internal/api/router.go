package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tuannh/noichu/internal/api/handler"
	"github.com/tuannh/noichu/internal/api/middleware"
	"github.com/tuannh/noichu/internal/relay"
	"github.com/tuannh/noichu/internal/services/auth"
	"github.com/tuannh/noichu/internal/services/game"
	"github.com/tuannh/noichu/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController game.ControllerInterface
	StatsService   *stats.Service
	Relay          relay.Relay
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.StatsService)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Relay)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.StatsService)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for creating accounts/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me/stats", playerHandler.GetMyStats).Methods(http.MethodGet)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/words", gameHandler.SubmitWord).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/words", gameHandler.History).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/timeout", gameHandler.Timeout).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/events", gameHandler.Events).Methods(http.MethodGet)

	// Leaderboard (no auth, read-only)
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
