package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vaultpass/passgen-go/internal/middleware"
)

// RouterConfig wires the handlers into a router. Auth and Settings may be
// nil when no database is available; their routes are then not mounted.
type RouterConfig struct {
	Generator *GeneratorHandler
	Auth      *AuthHandler
	Settings  *SettingsHandler
	JWTSecret string
	RateRPS   float64
	RateBurst int
}

// NewRouter builds the HTTP API. Background work started by its middleware
// stops when ctx is done.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.RateRPS*4, cfg.RateBurst*4))
			r.Post("/generate", cfg.Generator.HandleGenerateChars)
			r.Post("/generate/chars", cfg.Generator.HandleGenerateChars)
			r.Post("/generate/words", cfg.Generator.HandleGenerateWords)
		})

		if cfg.Auth == nil || cfg.Settings == nil {
			return
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.RateRPS, cfg.RateBurst))
			r.Post("/auth/register", cfg.Auth.HandleRegister)
			r.Post("/auth/login", cfg.Auth.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Get("/auth/me", cfg.Auth.HandleMe)

			r.Get("/settings", cfg.Settings.HandleGet)
			r.Put("/settings", cfg.Settings.HandleUpdate)
			r.Delete("/settings", cfg.Settings.HandleReset)
			r.Post("/settings/generate", cfg.Settings.HandleGenerate)
		})
	})

	return r
}
