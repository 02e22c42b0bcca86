// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"papertrade/internal/api/handler"
	"papertrade/internal/service"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	authHandler *handler.AuthHandler,
	tradingHandler *handler.TradingHandler,
	authService service.AuthService,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public routes
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	// Session-gated routes
	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth(authService, logger))

		r.Get("/portfolio", tradingHandler.Portfolio)
		r.Get("/history", tradingHandler.History)
		r.Post("/quote", tradingHandler.Quote)
		r.Post("/buy", tradingHandler.Buy)
		r.Post("/sell", tradingHandler.Sell)
	})

	return r
}
