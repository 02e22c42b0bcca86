// internal/api/handler/middleware.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"papertrade/internal/service"
	"papertrade/internal/util"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFromContext returns the authenticated user id set by RequireAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// RequireAuth gates a route behind an established session. Requests without a
// valid session token get a 401; they never reach the accounting operations.
func RequireAuth(authService service.AuthService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				respondWithError(logger, w, util.ErrUnauthorized)
				return
			}

			userID, err := authService.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				respondWithError(logger, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
