package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice-gateway/internal/config"
	"backoffice-gateway/internal/handler"
	"backoffice-gateway/internal/middleware"
	"backoffice-gateway/internal/session"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Resource *handler.ResourceHandler
	Session  *handler.SessionHandler
	Health   *handler.HealthHandler
	Metrics  http.Handler
}

func New(cfg *config.Config, identity *middleware.ClientIdentity, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(identity.Handler)

		// Long-lived; kept outside the request timeout.
		api.Get("/session/events", h.Session.Events)

		api.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(cfg.RequestTimeout))
			g.Use(middleware.LoadSession)

			g.Route("/auth", func(auth chi.Router) {
				auth.Post("/login", h.Auth.Login)
				auth.Post("/refresh", h.Auth.Refresh)
				auth.Post("/logout", h.Auth.Logout)
				auth.Get("/session", h.Auth.Session)
			})

			g.Get("/resources", h.Resource.Index)
			g.With(middleware.RequireLogin).Get("/resources/{resource}", h.Resource.List)
			g.With(middleware.RequireLogin).Get("/resources/{resource}/{id}", h.Resource.Get)

			g.With(middleware.RequireAbility(session.ActionRead, "BusinessUnit")).Get("/session/business-unit", h.Session.BusinessUnit)
		})
	})

	return r
}
