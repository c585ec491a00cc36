// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/margoul1Malin/sendup/internal/config"
	"github.com/margoul1Malin/sendup/internal/metrics"
)

// CORS builds the CORS middleware from the configured allowed origins.
func CORS(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// RateLimit builds a per-IP rate limiter. requests is the allowance per
// window; the limiter is a no-op when rate limiting is disabled in config.
func RateLimit(cfg *config.SecurityConfig, requests int, window time.Duration) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return passthrough
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"too many requests, slow down", nil)
		}),
	)
}

// DefaultRateLimit applies the configured default request allowance.
func DefaultRateLimit(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return RateLimit(cfg, cfg.RateLimitReqs, cfg.RateLimitWindow)
}

// AuthRateLimit is the strict limiter for credential endpoints: a tenth of
// the default allowance, floor of 5 per window.
func AuthRateLimit(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	requests := cfg.RateLimitReqs / 10
	if requests < 5 {
		requests = 5
	}
	return RateLimit(cfg, requests, cfg.RateLimitWindow)
}

// HealthRateLimit is the permissive limiter for probe endpoints.
func HealthRateLimit(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return RateLimit(cfg, cfg.RateLimitReqs*10, cfg.RateLimitWindow)
}

func passthrough(next http.Handler) http.Handler {
	return next
}
