package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/handler"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	words, err := config.LoadWords(cfg.WordsFile)
	if err != nil {
		slog.Warn("word list unavailable, passphrases need an explicit word list", "path", cfg.WordsFile, "error", err)
	} else {
		slog.Info("word list loaded", "path", cfg.WordsFile, "words", len(words))
	}

	genService := service.NewGeneratorService(crypto.CryptoSource{}, words)
	routes := handler.RouterConfig{
		Generator: handler.NewGeneratorHandler(genService),
		JWTSecret: cfg.JWTSecret,
		RateRPS:   cfg.RateRPS,
		RateBurst: cfg.RateBurst,
	}

	// Accounts and saved settings need the database.
	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, account routes disabled", "error", err)
	} else {
		defer db.Close()

		migrateCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := repository.Migrate(migrateCtx, db)
		cancel()
		if err != nil {
			slog.Error("database migration failed", "error", err)
			os.Exit(1)
		}

		authService := service.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTExpiry)
		settingsService := service.NewSettingsService(repository.NewSettingsRepository(db))

		routes.Auth = handler.NewAuthHandler(authService)
		routes.Settings = handler.NewSettingsHandler(settingsService, genService)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(ctx, routes),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
