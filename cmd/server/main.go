package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/qrsona/auth"
	"github.com/diewo77/qrsona/internal/config"
	"github.com/diewo77/qrsona/internal/db"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/server"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg.App.Dev)
	slog.SetDefault(logger)

	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		fatal("failed to connect to database", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			fatal("migration failed", err)
		}
		logger.Info("migrations completed")
		return
	}
	if cfg.App.Migrations {
		if err := db.Migrate(dbConn); err != nil {
			fatal("migration failed", err)
		}
		logger.Info("migrations completed")
	}

	tokens := auth.NewManager(cfg.App.JWTSecret, cfg.App.TokenTTL)
	verifier := auth.NewCachedVerifier(userExists(dbConn), cfg.App.VerifierTTL)
	tokens.SetUserVerifier(verifier.Verify)

	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: server.New(dbConn, tokens, server.Options{
			Logger:      logger,
			CORSOrigins: cfg.App.CORSOrigins,
		}),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "dev", cfg.App.Dev, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", "err", err)
	}
	logger.Info("server stopped gracefully")
}

// userExists lets RequireAuth reject tokens of deleted users.
func userExists(dbConn *gorm.DB) auth.UserVerifier {
	return func(ctx context.Context, uid uint) bool {
		var count int64
		if err := dbConn.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	}
}

func newLogger(dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
