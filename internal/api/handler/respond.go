// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"papertrade/internal/util"
)

// DefaultTimeout bounds request handling time at the router level.
const DefaultTimeout = 30 * time.Second

// SessionCookie is the name of the session token cookie.
const SessionCookie = "session_token"

// respondWithJSON sends a JSON response.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps domain and validation errors to HTTP status codes.
// Anything unmapped is a collaborator failure and surfaces as a 500.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrInvalidSymbol),
		util.IsError(err, util.ErrInsufficientShares),
		util.IsError(err, util.ErrUsernameTaken):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired
		message = err.Error()
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusForbidden
		message = err.Error()
	case util.IsError(err, util.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = err.Error()
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, map[string]string{"error": message})
}
