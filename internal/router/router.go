package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"community-service/internal/config"
	"community-service/internal/handler"
	"community-service/internal/middleware"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Gamification *handler.GamificationHandler
	Content      *handler.ContentHandler
	Health       *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Check)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Post("/logout-all", h.Auth.LogoutAll)
			auth.With(authMiddleware.RequireAuth).Get("/sessions", h.Auth.Sessions)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Route("/gamification", func(g chi.Router) {
			g.Get("/achievements", h.Gamification.Catalog)
			g.Get("/{user_id}", h.Gamification.Profile)
			g.With(authMiddleware.RequireAuth).Post("/{user_id}/check-badges", h.Gamification.CheckBadges)
		})

		api.With(authMiddleware.RequireAuth).Post("/posts", h.Content.CreatePost)
		api.With(authMiddleware.RequireAuth).Post("/posts/{post_id}/comments", h.Content.CreateComment)
		api.With(authMiddleware.RequireAuth).Post("/posts/{post_id}/reactions", h.Content.AddReaction)
	})

	return r
}
