package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeGameNotWaiting     = "GAME_NOT_WAITING"
	CodeGameNotPlaying     = "GAME_NOT_PLAYING"
	CodeGameFull           = "GAME_FULL"
	CodeAlreadyJoined      = "ALREADY_JOINED"
	CodeNotHost            = "NOT_HOST"
	CodeNotEnoughPlayers   = "NOT_ENOUGH_PLAYERS"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeTurnNotExpired     = "TURN_NOT_EXPIRED"
	CodeWordTooShort       = "WORD_TOO_SHORT"
	CodeWordTooLong        = "WORD_TOO_LONG"
	CodeWordAlreadyUsed    = "WORD_ALREADY_USED"
	CodeInvalidChainStart  = "INVALID_CHAIN_START"
	CodeInvalidWord        = "INVALID_WORD"
	CodeWordCheckOffline   = "WORD_CHECK_UNAVAILABLE"
	CodeConflict           = "CONCURRENT_MODIFICATION"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameNotWaiting):
		return &httpError{http.StatusConflict, APIError{CodeGameNotWaiting, "Game has already started"}}
	case errors.Is(err, model.ErrGameNotPlaying):
		return &httpError{http.StatusConflict, APIError{CodeGameNotPlaying, "Game is not in progress"}}
	case errors.Is(err, model.ErrGameFull):
		return &httpError{http.StatusConflict, APIError{CodeGameFull, "Game is full"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "Already joined this game"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrNotEnoughPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNotEnoughPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrTurnNotExpired):
		return &httpError{http.StatusConflict, APIError{CodeTurnNotExpired, "Turn time limit has not expired"}}
	case errors.Is(err, model.ErrWordTooShort):
		return &httpError{http.StatusBadRequest, APIError{CodeWordTooShort, "Word is too short"}}
	case errors.Is(err, model.ErrWordTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeWordTooLong, "Word is too long"}}
	case errors.Is(err, model.ErrWordAlreadyUsed):
		return &httpError{http.StatusBadRequest, APIError{CodeWordAlreadyUsed, "Word has already been used"}}
	case errors.Is(err, model.ErrInvalidChainStart):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidChainStart, "Word does not continue the chain"}}
	case errors.Is(err, model.ErrInvalidWord):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidWord, "Not a valid word"}}
	case errors.Is(err, model.ErrOracleUnavailable):
		return &httpError{http.StatusBadRequest, APIError{CodeWordCheckOffline, "Word check is unavailable, try again"}}
	case errors.Is(err, model.ErrConcurrentModification):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Game was modified concurrently, retry"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
