// Package httpapi exposes the xlist directory, profile management, click
// tracking and analytics over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/Harshan-Nayak/xlist/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Service *service.Service
	Auth    *Authenticator
	// Metrics records request counters; MetricsHandler serves /metrics.
	Metrics        HTTPRecorder
	MetricsHandler http.Handler
	AllowedOrigins []string
	// RateLimit is the number of requests allowed per IP per RateWindow.
	// Zero disables rate limiting.
	RateLimit  int
	RateWindow time.Duration
}

// NewRouter builds the chi router.
func NewRouter(cfg RouterConfig) http.Handler {
	h := NewHandlers(cfg.Service)
	auth := cfg.Auth
	if auth == nil {
		auth = NewAuthenticator("", "")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(accessLog)
	if cfg.Metrics != nil {
		r.Use(metricsMiddleware(cfg.Metrics))
	}
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	if cfg.RateLimit > 0 {
		window := cfg.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(cfg.RateLimit, window))
	}

	r.Get("/healthz", h.Healthz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}
	r.Get("/p/{id}", h.Visit)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Get("/profiles", h.ListProfiles)
		r.Get("/profiles/{id}", h.GetProfile)
		r.Post("/profiles/{id}/clicks", h.TrackClick)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Get("/me/profile", h.MyProfile)
			r.Post("/profiles", h.CreateProfile)
			r.Patch("/profiles/{id}", h.UpdateProfile)
			r.Delete("/profiles/{id}", h.DeleteProfile)
			r.Get("/profiles/{id}/analytics", h.Analytics)
			r.Get("/profiles/{id}/clicks", h.ClickHistory)
		})
	})

	return r
}
