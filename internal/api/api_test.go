package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannh/noichu/internal/api"
	"github.com/tuannh/noichu/internal/api/response"
	"github.com/tuannh/noichu/internal/factory"
	"github.com/tuannh/noichu/internal/testutil"
)

// testServer wires the router against a test app so requests run through
// the real middleware, handlers, and services.
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		GameController: app.GameController,
		StatsService:   app.StatsService,
		Relay:          app.Relay,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// guest creates a guest account and returns its session token and player id.
func (ts *testServer) guest(t *testing.T, name string) (token, playerID string) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"name": name}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionToken, resp.User.ID
}

// createGame creates a game with a deterministic id for the given host.
func (ts *testServer) createGame(t *testing.T, token, id string, body any) response.Game {
	t.Helper()

	ts.app.MockRandom.QueueString(id)
	rr := ts.request(http.MethodPost, "/api/v1/games", body, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	return game
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGuest(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"name": "Anh"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Anh", resp.User.Name)
	assert.True(t, resp.User.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestCreateGuestRequiresName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rr))
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	registerBody := map[string]string{
		"username": "anh",
		"password": "secret123",
		"name":     "Anh",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registerResp))
	assert.False(t, registerResp.User.IsGuest)

	loginBody := map[string]string{"username": "anh", "password": "secret123"}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	assert.Equal(t, registerResp.User.ID, loginResp.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": "anh", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/register", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "USERNAME_EXISTS", errorCode(t, rr))
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": "anh", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/login",
		map[string]string{"username": "anh", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rr))
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	token, playerID := ts.guest(t, "Anh")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, playerID, user.ID)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.guest(t, "Anh")

	rr := ts.request(http.MethodPost, "/api/v1/players/logout", nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/players/me", "/api/v1/games/SOMEGAME"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "sess_bogus")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	token, playerID := ts.guest(t, "Anh")

	game := ts.createGame(t, token, "GAME0001", nil)

	assert.Equal(t, "GAME0001", game.ID)
	assert.Equal(t, "waiting", game.Status)
	assert.Equal(t, playerID, game.HostID)
	require.Len(t, game.Players, 1)

	// The oracle seeds an opening word; the chain constrains the next one
	require.Len(t, game.Words, 1)
	assert.Equal(t, "anh", game.Words[0].Text)
	assert.Equal(t, "h", game.RequiredStart)
	assert.Equal(t, 1, game.Round)
}

func TestCreateGameWithSettings(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.guest(t, "Anh")

	body := map[string]any{"settings": map[string]any{"max_players": 2, "win_points": 100}}
	game := ts.createGame(t, token, "GAME0001", body)

	assert.Equal(t, 2, game.Settings.MaxPlayers)
	assert.Equal(t, 100, game.Settings.WinPoints)
	// Unspecified fields keep their defaults
	assert.Equal(t, 30, game.Settings.TimeLimit)
}

func TestCreateGameRejectsBadSettings(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.guest(t, "Anh")

	body := map[string]any{"settings": map[string]any{"max_players": 1}}
	rr := ts.request(http.MethodPost, "/api/v1/games", body, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rr))
}

func TestGetGameNotFound(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.guest(t, "Anh")

	rr := ts.request(http.MethodGet, "/api/v1/games/MISSING1", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "GAME_NOT_FOUND", errorCode(t, rr))
}

func TestJoinAndStartGame(t *testing.T) {
	ts := newTestServer(t)
	hostToken, _ := ts.guest(t, "Anh")
	guestToken, guestID := ts.guest(t, "Ba")

	game := ts.createGame(t, hostToken, "GAME0001", nil)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/join", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var joined response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))
	require.Len(t, joined.Players, 2)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/start", nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var started response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))
	assert.Equal(t, "playing", started.Status)
	assert.Equal(t, guestID, started.CurrentPlayerID)
}

func TestJoinFullGame(t *testing.T) {
	ts := newTestServer(t)
	hostToken, _ := ts.guest(t, "Anh")
	token2, _ := ts.guest(t, "Ba")
	token3, _ := ts.guest(t, "Ca")

	body := map[string]any{"settings": map[string]any{"max_players": 2}}
	game := ts.createGame(t, hostToken, "GAME0001", body)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/join", nil, token2)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/join", nil, token3)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "GAME_FULL", errorCode(t, rr))
}

func TestStartGameNotHost(t *testing.T) {
	ts := newTestServer(t)
	hostToken, _ := ts.guest(t, "Anh")
	guestToken, _ := ts.guest(t, "Ba")

	game := ts.createGame(t, hostToken, "GAME0001", nil)
	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/join", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/start", nil, guestToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "NOT_HOST", errorCode(t, rr))
}

// startedGame sets up a two-player game in progress. The guest has the
// first turn.
func startedGame(t *testing.T, ts *testServer, body any) (game response.Game, hostToken, guestToken string) {
	t.Helper()

	hostToken, _ = ts.guest(t, "Anh")
	guestToken, _ = ts.guest(t, "Ba")

	game = ts.createGame(t, hostToken, "GAME0001", body)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/join", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/start", nil, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)

	return game, hostToken, guestToken
}

func TestSubmitWord(t *testing.T) {
	ts := newTestServer(t)
	game, _, guestToken := startedGame(t, ts, nil)

	// Opening word is "anh"; "hoa" continues the chain
	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/words",
		map[string]string{"word": "hoa"}, guestToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.Len(t, updated.Words, 2)
	assert.Equal(t, "hoa", updated.Words[1].Text)
	assert.Equal(t, 45, updated.Words[1].Score)
	assert.Equal(t, 2, updated.Round)
	assert.Equal(t, "a", updated.RequiredStart)
}

func TestSubmitWordOutOfTurn(t *testing.T) {
	ts := newTestServer(t)
	game, hostToken, _ := startedGame(t, ts, nil)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/words",
		map[string]string{"word": "hoa"}, hostToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "NOT_YOUR_TURN", errorCode(t, rr))
}

func TestSubmitWordChainBreak(t *testing.T) {
	ts := newTestServer(t)
	game, _, guestToken := startedGame(t, ts, nil)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/words",
		map[string]string{"word": "ba"}, guestToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_CHAIN_START", errorCode(t, rr))
}

func TestSubmitWordTooShort(t *testing.T) {
	ts := newTestServer(t)
	game, _, guestToken := startedGame(t, ts, nil)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/words",
		map[string]string{"word": "h"}, guestToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "WORD_TOO_SHORT", errorCode(t, rr))
}

func TestSubmitWordNotInDictionary(t *testing.T) {
	ts := newTestServer(t)
	game, _, guestToken := startedGame(t, ts, nil)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/words",
		map[string]string{"word": "hq"}, guestToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_WORD", errorCode(t, rr))
}

func TestWinningFlowUpdatesStatsAndLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{"settings": map[string]any{"win_points": 40}}
	game, _, guestToken := startedGame(t, ts, body)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/words",
		map[string]string{"word": "hoa"}, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var finished response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &finished))
	assert.Equal(t, "finished", finished.Status)
	assert.NotEmpty(t, finished.WinnerID)

	// Winner's lifetime stats
	rr = ts.request(http.MethodGet, "/api/v1/players/me/stats", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var entry response.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	assert.Equal(t, 1, entry.TotalGames)
	assert.Equal(t, 1, entry.Wins)
	assert.Equal(t, 45, entry.TotalScore)

	// Leaderboard is public
	rr = ts.request(http.MethodGet, "/api/v1/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var board response.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	require.Len(t, board.Entries, 2)
	assert.Equal(t, finished.WinnerID, board.Entries[0].PlayerID)
}

func TestWordHistory(t *testing.T) {
	ts := newTestServer(t)
	game, _, guestToken := startedGame(t, ts, nil)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/words",
		map[string]string{"word": "hoa"}, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+game.ID+"/words", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var history response.WordHistory
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	assert.Equal(t, game.ID, history.GameID)
	require.Len(t, history.Records, 1)
	assert.Equal(t, "hoa", history.Records[0].Word)
}

func TestTimeoutTurn(t *testing.T) {
	ts := newTestServer(t)
	game, _, guestToken := startedGame(t, ts, nil)

	// Before the deadline the server refuses
	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/timeout", nil, guestToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "TURN_NOT_EXPIRED", errorCode(t, rr))

	ts.app.MockClock.Advance(31 * time.Second)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/timeout", nil, guestToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, game.HostID, updated.CurrentPlayerID)
}

func TestEventStreamSendsSnapshot(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.guest(t, "Anh")
	game := ts.createGame(t, token, "GAME0001", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/"+game.ID+"/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "retry: 3000")
	assert.Contains(t, body, "event: snapshot")
	assert.Contains(t, body, `"SNAPSHOT"`)
	assert.Contains(t, body, game.ID)
}

func TestEventStreamUnknownGame(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.guest(t, "Anh")

	rr := ts.request(http.MethodGet, "/api/v1/games/MISSING1/events", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
