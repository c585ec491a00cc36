// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package api

import (
	"net/http"
	"time"
)

type healthStatus struct {
	Status   string  `json:"status"`
	Database string  `json:"database"`
	UptimeS  float64 `json:"uptime_seconds"`
}

// Health reports overall service health including database connectivity.
// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:   "ok",
		Database: "up",
		UptimeS:  time.Since(h.startTime).Seconds(),
	}

	httpStatus := http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Health check database ping failed")
		status.Status = "degraded"
		status.Database = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	respondSuccess(w, httpStatus, status)
}

// HealthLive is the liveness probe: the process is up and serving.
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: dependencies are reachable.
// GET /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "database unavailable", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}
