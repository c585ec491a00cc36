// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/margoul1Malin/sendup/internal/auth"
	"github.com/margoul1Malin/sendup/internal/middleware"
	"github.com/margoul1Malin/sendup/internal/models"
)

// NewRouter assembles the full HTTP surface: health probes, auth endpoints,
// the authenticated marketplace API and the Prometheus scrape endpoint.
func NewRouter(h *Handler, jwtManager *auth.JWTManager) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(&h.cfg.Security))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)

	// Health probes: unauthenticated, permissive rate limit.
	r.Group(func(r chi.Router) {
		r.Use(HealthRateLimit(&h.cfg.Security))
		r.Get("/api/v1/health", h.Health)
		r.Get("/api/v1/health/live", h.HealthLive)
		r.Get("/api/v1/health/ready", h.HealthReady)
	})

	// Credential endpoints: strict rate limit against brute force.
	r.Group(func(r chi.Router) {
		r.Use(AuthRateLimit(&h.cfg.Security))
		r.Post("/api/v1/auth/register", h.Register)
		r.Post("/api/v1/auth/login", h.Login)
		r.Post("/api/v1/auth/refresh", h.Refresh)
		r.Post("/api/v1/auth/logout", h.Logout)
	})

	// Authenticated API.
	r.Group(func(r chi.Router) {
		r.Use(DefaultRateLimit(&h.cfg.Security))
		r.Use(auth.Authenticate(jwtManager))

		r.Post("/api/v1/auth/logout-all", h.LogoutAll)
		r.Get("/api/v1/auth/me", h.Me)

		r.Route("/api/v1/expeditions", func(r chi.Router) {
			r.Get("/", h.ListExpeditions)
			r.Get("/{id}", h.GetExpedition)
			r.Get("/{id}/recommendations", h.Recommendations)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleClient))
				r.Post("/", h.CreateExpedition)
				r.Patch("/{id}/status", h.UpdateExpeditionStatus)
				r.Delete("/{id}", h.DeleteExpedition)
			})
		})

		r.Route("/api/v1/courses", func(r chi.Router) {
			r.Get("/", h.ListCourses)
			r.Get("/{id}", h.GetCourse)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleTransporter))
				r.Post("/", h.CreateCourse)
				r.Patch("/{id}/status", h.UpdateCourseStatus)
				r.Patch("/{id}/active", h.SetCourseActive)
			})
		})

		r.Route("/api/v1/offers", func(r chi.Router) {
			r.Post("/", h.CreateOffer)
			r.Get("/", h.ListOffers)
			r.Get("/{id}", h.GetOffer)
			r.Post("/{id}/accept", h.AcceptOffer)
			r.Post("/{id}/reject", h.RejectOffer)
			r.Post("/{id}/withdraw", h.WithdrawOffer)
		})

		r.Get("/api/v1/search", h.Search)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
