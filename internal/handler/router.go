package handler

import (
	"context"
	"net/http"

	"github.com/devconnector/devconnector-go/internal/crypto"
	"github.com/devconnector/devconnector-go/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries what the HTTP routes need.
type RouterConfig struct {
	Auth    AuthService
	Profile ProfileService
	Tokens  crypto.TokenSigner

	TokenHeader    string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the API routes. ctx bounds the rate limiter's background sweep.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth)
	profileHandler := NewProfileHandler(cfg.Profile)
	guard := middleware.Guard(cfg.Tokens, cfg.TokenHeader)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
			r.Post("/users", authHandler.HandleRegister)
			r.Post("/auth", authHandler.HandleLogin)
		})

		r.Get("/profile", profileHandler.HandleList)
		r.Get("/profile/user/{user_id}", profileHandler.HandleByUser)

		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Get("/auth", authHandler.HandleMe)

			r.Get("/profile/me", profileHandler.HandleMe)
			r.Post("/profile", profileHandler.HandleUpsert)
			r.Delete("/profile", profileHandler.HandleDeleteAccount)
			r.Put("/profile/experience", profileHandler.HandleAddExperience)
			r.Delete("/profile/experience/{exp_id}", profileHandler.HandleDeleteExperience)
			r.Put("/profile/education", profileHandler.HandleAddEducation)
			r.Delete("/profile/education/{edu_id}", profileHandler.HandleDeleteEducation)

			r.Get("/posts", HandlePosts)
		})
	})

	return r
}
