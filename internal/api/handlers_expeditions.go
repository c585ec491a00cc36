// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/margoul1Malin/sendup/internal/auth"
	"github.com/margoul1Malin/sendup/internal/database"
	"github.com/margoul1Malin/sendup/internal/matching"
	"github.com/margoul1Malin/sendup/internal/models"
)

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateExpedition posts a new shipment request owned by the caller.
// POST /api/v1/expeditions
func (h *Handler) CreateExpedition(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	var exp models.Expedition
	if err := decodeJSON(r, &exp); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	// Server-controlled fields never come from the request body.
	exp.ID = ""
	exp.ClientID = claims.UserID
	exp.Status = models.ExpeditionPending
	if exp.Urgency == "" {
		exp.Urgency = models.UrgencyNormal
	}

	if apiErr := validateRequest(&exp); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}

	if err := h.db.CreateExpedition(r.Context(), &exp); err != nil {
		respondDBError(w, err)
		return
	}

	h.logger.Info().Str("expedition_id", exp.ID).Str("client_id", exp.ClientID).Msg("Expedition created")
	respondSuccess(w, http.StatusCreated, exp)
}

// GetExpedition fetches a single expedition by ID.
// GET /api/v1/expeditions/{id}
func (h *Handler) GetExpedition(w http.ResponseWriter, r *http.Request) {
	exp, err := h.db.GetExpedition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, exp)
}

// ListExpeditions lists expeditions, filterable by client_id and status.
// GET /api/v1/expeditions?client_id=&status=&limit=&offset=
func (h *Handler) ListExpeditions(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.pagination(getIntParam(r, "limit", 0), getIntParam(r, "offset", 0))

	filter := database.ExpeditionFilter{
		ClientID: r.URL.Query().Get("client_id"),
		Status:   models.ExpeditionStatus(r.URL.Query().Get("status")),
		Limit:    limit,
		Offset:   offset,
	}

	expeditions, err := h.db.ListExpeditions(r.Context(), filter)
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, expeditions)
}

// UpdateExpeditionStatus advances an expedition through its lifecycle.
// Only the owner may do this; admins bypass the ownership check.
// PATCH /api/v1/expeditions/{id}/status
func (h *Handler) UpdateExpeditionStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	var req statusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	ownerID := claims.UserID
	if claims.Role == string(models.RoleAdmin) {
		ownerID = ""
	}

	err := h.db.UpdateExpeditionStatus(r.Context(), chi.URLParam(r, "id"), ownerID, models.ExpeditionStatus(req.Status))
	if err != nil {
		respondDBError(w, err)
		return
	}

	exp, err := h.db.GetExpedition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, exp)
}

// DeleteExpedition removes an expedition that never got matched.
// DELETE /api/v1/expeditions/{id}
func (h *Handler) DeleteExpedition(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	ownerID := claims.UserID
	if claims.Role == string(models.RoleAdmin) {
		ownerID = ""
	}

	if err := h.db.DeleteExpedition(r.Context(), chi.URLParam(r, "id"), ownerID); err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Recommendations scores the candidate courses against an expedition and
// returns the best matches plus the total number of compatible courses.
// GET /api/v1/expeditions/{id}/recommendations?top=
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	exp, err := h.db.GetExpedition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDBError(w, err)
		return
	}

	if exp.ClientID != claims.UserID && claims.Role != string(models.RoleAdmin) {
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "not the expedition owner", nil)
		return
	}

	candidates, err := h.db.CandidateCourses(r.Context(), exp.DepartureDate)
	if err != nil {
		respondDBError(w, err)
		return
	}

	matches, total, err := h.engine.Recommend(r.Context(), *exp, candidates, getIntParam(r, "top", 0))
	if err != nil {
		if errors.Is(err, matching.ErrThrottled) {
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "recommendation throughput exceeded", nil)
			return
		}
		respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "recommendation aborted", err)
		return
	}

	respondSuccess(w, http.StatusOK, models.RecommendationsResponse{
		Recommendations: matches,
		Total:           total,
	})
}
