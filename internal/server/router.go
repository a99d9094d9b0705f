// Package server assembles the QRsona reference REST server.
package server

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/qrsona/auth"
	"github.com/diewo77/qrsona/internal/handlers"
	"github.com/diewo77/qrsona/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Options configure New.
type Options struct {
	Logger      *slog.Logger
	CORSOrigins []string
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, tokens *auth.Manager, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := NewRouterConfig(db, tokens, logger)
	mux := http.NewServeMux()

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /api/health", handlers.Health(db))
	mux.HandleFunc("POST /api/signup", cfg.AuthHandler.SignUp)
	mux.HandleFunc("POST /api/signin", cfg.AuthHandler.SignIn)
	mux.HandleFunc("POST /api/generate-qr", handlers.GenerateQR)
	mux.Handle("GET /metrics", promhttp.Handler())

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes
	// ─────────────────────────────────────────────────────────────────────────
	protected := func(h http.HandlerFunc) http.Handler { return tokens.RequireAuth(h) }

	ch := cfg.ConnectionHandler
	mux.Handle("GET /api/connections", protected(ch.List))
	mux.Handle("POST /api/connections", protected(ch.Create))
	mux.Handle("GET /api/connections/{id}", protected(ch.Get))
	mux.Handle("PUT /api/connections/{id}", protected(ch.Update))
	mux.Handle("DELETE /api/connections/{id}", protected(ch.Delete))

	ph := cfg.ProfileHandler
	mux.Handle("GET /api/users/{userId}/profiles", protected(ph.ListByUser))
	mux.Handle("POST /api/profiles", protected(ph.Create))
	mux.Handle("GET /api/profiles/{id}", protected(ph.Get))
	mux.Handle("PUT /api/profiles/{id}", protected(ph.Update))
	mux.Handle("DELETE /api/profiles/{id}", protected(ph.Delete))

	var h http.Handler = middleware.Metrics(mux)
	h = tokens.Middleware(h)
	h = middleware.Prefs(h)
	h = middleware.CORS(opts.CORSOrigins)(h)
	h = middleware.Recover(logger)(h)
	h = middleware.Logging(logger)(h)
	return middleware.RequestID(h)
}
