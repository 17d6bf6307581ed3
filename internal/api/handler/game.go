package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tuannh/noichu/internal/api/middleware"
	"github.com/tuannh/noichu/internal/api/request"
	"github.com/tuannh/noichu/internal/api/response"
	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/relay"
	"github.com/tuannh/noichu/internal/services/game"
)

// ssePingPeriod is the keepalive comment interval for event streams
const ssePingPeriod = 15 * time.Second

// GameHandler handles game endpoints
type GameHandler struct {
	controller game.ControllerInterface
	relay      relay.Relay
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller game.ControllerInterface, r relay.Relay) *GameHandler {
	return &GameHandler{
		controller: controller,
		relay:      r,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateGameRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	settings, err := settingsFromRequest(req.Settings)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.controller.CreateGame(r.Context(), user.ID, user.Name, settings)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// Get handles GET /api/v1/games/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.controller.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Join handles POST /api/v1/games/{game_id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	g, err := h.controller.JoinGame(r.Context(), gameID(r), user.ID, user.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Start handles POST /api/v1/games/{game_id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	g, err := h.controller.StartGame(r.Context(), gameID(r), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// SubmitWord handles POST /api/v1/games/{game_id}/words
func (h *GameHandler) SubmitWord(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.SubmitWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Word == "" {
		WriteError(w, NewInvalidRequestError("word is required"))
		return
	}

	g, err := h.controller.SubmitWord(r.Context(), gameID(r), user.ID, req.Word)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Timeout handles POST /api/v1/games/{game_id}/timeout
func (h *GameHandler) Timeout(w http.ResponseWriter, r *http.Request) {
	g, err := h.controller.TimeoutTurn(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// History handles GET /api/v1/games/{game_id}/words
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)

	records, err := h.controller.GetWordHistory(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.WordHistory{GameID: string(id), Records: make([]response.WordRecord, len(records))}
	for i, rec := range records {
		out.Records[i] = response.WordRecordFromModel(rec)
	}
	response.JSON(w, http.StatusOK, out)
}

// Events handles GET /api/v1/games/{game_id}/events as a server-sent
// event stream. The current state is sent first, then one event per
// committed transition until the client disconnects.
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, NewInvalidRequestError("streaming not supported"))
		return
	}

	id := gameID(r)
	g, err := h.controller.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	sub, err := h.relay.Subscribe(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	_, _ = w.Write([]byte("retry: 3000\n\n"))
	writeSSE(w, "snapshot", response.GameEvent{
		Event: "SNAPSHOT",
		Game:  response.GameFromModel(g),
		At:    time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(ssePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case snap, ok := <-sub.C:
			if !ok {
				return
			}
			writeSSE(w, "game", response.GameEvent{
				Event: string(snap.Event),
				Game:  response.GameFromModel(snap.Game),
				At:    snap.At,
			})
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["game_id"])
}

// settingsFromRequest merges optional overrides onto the defaults.
func settingsFromRequest(req *request.GameSettings) (*model.GameSettings, error) {
	if req == nil {
		return nil, nil
	}

	s := model.DefaultGameSettings()
	if req.MaxPlayers != nil {
		if *req.MaxPlayers < 2 {
			return nil, NewInvalidRequestError("max_players must be at least 2")
		}
		s.MaxPlayers = *req.MaxPlayers
	}
	if req.TimeLimit != nil {
		if *req.TimeLimit < 5 {
			return nil, NewInvalidRequestError("time_limit must be at least 5 seconds")
		}
		s.TimeLimit = *req.TimeLimit
	}
	if req.MinWordLength != nil {
		if *req.MinWordLength < 1 {
			return nil, NewInvalidRequestError("min_word_length must be at least 1")
		}
		s.MinWordLength = *req.MinWordLength
	}
	if req.MaxWordLength != nil {
		s.MaxWordLength = *req.MaxWordLength
	}
	if s.MaxWordLength > 0 && s.MaxWordLength < s.MinWordLength {
		return nil, NewInvalidRequestError("max_word_length must not be below min_word_length")
	}
	if req.Language != nil {
		s.Language = *req.Language
	}
	if req.AllowRepeatWords != nil {
		s.AllowRepeatWords = *req.AllowRepeatWords
	}
	if req.PointsPerLetter != nil {
		if *req.PointsPerLetter < 1 {
			return nil, NewInvalidRequestError("points_per_letter must be positive")
		}
		s.PointsPerLetter = *req.PointsPerLetter
	}
	if req.WinPoints != nil {
		if *req.WinPoints < 1 {
			return nil, NewInvalidRequestError("win_points must be positive")
		}
		s.WinPoints = *req.WinPoints
	}
	return &s, nil
}
