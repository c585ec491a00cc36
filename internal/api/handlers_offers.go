// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/margoul1Malin/sendup/internal/auth"
	"github.com/margoul1Malin/sendup/internal/models"
)

// CreateOffer opens a booking proposal between an expedition and a course.
// The sender must own one side of the pair: the client proposes to put their
// expedition on someone's course, the transporter proposes to carry someone's
// expedition.
// POST /api/v1/offers
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	var offer models.Offer
	if err := decodeJSON(r, &offer); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	offer.ID = ""
	offer.SenderID = claims.UserID

	if apiErr := validateRequest(&offer); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}

	exp, err := h.db.GetExpedition(r.Context(), offer.ExpeditionID)
	if err != nil {
		respondDBError(w, err)
		return
	}
	course, err := h.db.GetCourse(r.Context(), offer.CourseID)
	if err != nil {
		respondDBError(w, err)
		return
	}

	if exp.ClientID != claims.UserID && course.TransporterID != claims.UserID {
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR",
			"offers can only be sent on your own expedition or course", nil)
		return
	}
	if exp.Status != models.ExpeditionPending {
		respondError(w, http.StatusConflict, "CONFLICT", "expedition is no longer open", nil)
		return
	}
	if course.Status != models.CourseAvailable || !course.IsActive {
		respondError(w, http.StatusConflict, "CONFLICT", "course is not accepting offers", nil)
		return
	}

	if err := h.db.CreateOffer(r.Context(), &offer); err != nil {
		respondDBError(w, err)
		return
	}

	h.logger.Info().
		Str("offer_id", offer.ID).
		Str("expedition_id", offer.ExpeditionID).
		Str("course_id", offer.CourseID).
		Msg("Offer created")
	respondSuccess(w, http.StatusCreated, offer)
}

// GetOffer fetches a single offer by ID. Only the two parties and admins may
// see it.
// GET /api/v1/offers/{id}
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	offer, err := h.db.GetOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDBError(w, err)
		return
	}

	if claims.Role != string(models.RoleAdmin) && !h.isOfferParty(r, offer, claims.UserID) {
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "not a party to this offer", nil)
		return
	}
	respondSuccess(w, http.StatusOK, offer)
}

// ListOffers lists the offers attached to an expedition or a course.
// GET /api/v1/offers?expedition_id= or ?course_id=
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	expeditionID := r.URL.Query().Get("expedition_id")
	courseID := r.URL.Query().Get("course_id")

	switch {
	case expeditionID != "" && courseID == "":
		offers, err := h.db.ListOffersForExpedition(r.Context(), expeditionID)
		if err != nil {
			respondDBError(w, err)
			return
		}
		respondSuccess(w, http.StatusOK, offers)
	case courseID != "" && expeditionID == "":
		offers, err := h.db.ListOffersForCourse(r.Context(), courseID)
		if err != nil {
			respondDBError(w, err)
			return
		}
		respondSuccess(w, http.StatusOK, offers)
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"exactly one of expedition_id or course_id is required", nil)
	}
}

// AcceptOffer books the expedition onto the course: the offer is accepted,
// competing offers are rejected, a space is consumed and the expedition moves
// to matched, all in one transaction. Only the counterparty may accept.
// POST /api/v1/offers/{id}/accept
func (h *Handler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.loadOfferForResponse(w, r)
	if !ok {
		return
	}

	if err := h.db.AcceptOffer(r.Context(), offer.ID); err != nil {
		respondDBError(w, err)
		return
	}

	updated, err := h.db.GetOffer(r.Context(), offer.ID)
	if err != nil {
		respondDBError(w, err)
		return
	}

	h.logger.Info().Str("offer_id", offer.ID).Msg("Offer accepted")
	respondSuccess(w, http.StatusOK, updated)
}

// RejectOffer declines a pending offer. Only the counterparty may reject.
// POST /api/v1/offers/{id}/reject
func (h *Handler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.loadOfferForResponse(w, r)
	if !ok {
		return
	}

	if err := h.db.RejectOffer(r.Context(), offer.ID); err != nil {
		respondDBError(w, err)
		return
	}

	updated, err := h.db.GetOffer(r.Context(), offer.ID)
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, updated)
}

// WithdrawOffer retracts a pending offer. Only its sender may withdraw.
// POST /api/v1/offers/{id}/withdraw
func (h *Handler) WithdrawOffer(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.db.WithdrawOffer(r.Context(), id, claims.UserID); err != nil {
		respondDBError(w, err)
		return
	}

	updated, err := h.db.GetOffer(r.Context(), id)
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, updated)
}

// loadOfferForResponse loads an offer and checks that the caller is the
// counterparty: the expedition owner when the transporter sent the offer, the
// course owner when the client sent it. Admins pass. On failure the error
// response is already written and ok is false.
func (h *Handler) loadOfferForResponse(w http.ResponseWriter, r *http.Request) (*models.Offer, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return nil, false
	}

	offer, err := h.db.GetOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDBError(w, err)
		return nil, false
	}

	if claims.Role == string(models.RoleAdmin) {
		return offer, true
	}

	counterparty, err := h.offerCounterparty(r, offer)
	if err != nil {
		respondDBError(w, err)
		return nil, false
	}
	if counterparty != claims.UserID {
		respondError(w, http.StatusForbidden, "AUTHORIZATION_ERROR",
			"only the counterparty can respond to this offer", nil)
		return nil, false
	}

	return offer, true
}

// offerCounterparty resolves which user must respond to the offer.
func (h *Handler) offerCounterparty(r *http.Request, offer *models.Offer) (string, error) {
	exp, err := h.db.GetExpedition(r.Context(), offer.ExpeditionID)
	if err != nil {
		return "", err
	}
	if offer.SenderID == exp.ClientID {
		course, err := h.db.GetCourse(r.Context(), offer.CourseID)
		if err != nil {
			return "", err
		}
		return course.TransporterID, nil
	}
	return exp.ClientID, nil
}

// isOfferParty reports whether userID owns either side of the offer.
func (h *Handler) isOfferParty(r *http.Request, offer *models.Offer, userID string) bool {
	if offer.SenderID == userID {
		return true
	}
	counterparty, err := h.offerCounterparty(r, offer)
	if err != nil {
		return false
	}
	return counterparty == userID
}
