// internal/api/handler/auth.go
package handler

import (
	"log/slog"
	"net/http"

	"papertrade/internal/service"
	"papertrade/internal/util"
)

// AuthHandler handles HTTP requests for registration and sessions.
type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  logger,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles new account creation and logs the user in.
// POST /register with form fields username, password, confirmation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	user, token, err := h.service.Register(
		r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
		r.PostFormValue("confirmation"),
	)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	h.setSessionCookie(w, token)
	respondWithJSON(h.logger, w, http.StatusCreated, map[string]interface{}{
		"message":      "Successfully registered!",
		"user_id":      user.ID,
		"username":     user.Username,
		"cash":         user.Cash,
		"cash_display": util.USD(user.Cash),
	})
}

// Login handles credential verification.
// POST /login with form fields username, password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	user, token, err := h.service.Login(
		r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
	)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	h.setSessionCookie(w, token)
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"message":  "Logged in!",
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Logout ends the current session.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			respondWithError(h.logger, w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondWithJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Logged out"})
}
