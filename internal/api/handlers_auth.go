// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/margoul1Malin/sendup/internal/auth"
	"github.com/margoul1Malin/sendup/internal/models"
)

// Register creates a new marketplace account.
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		respondDBError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, user)
}

// Login verifies credentials and issues a token pair. The access token is
// also set as an HttpOnly cookie for browser clients.
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}

	resp, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid credentials", nil)
			return
		}
		respondDBError(w, err)
		return
	}

	h.setTokenCookie(w, resp.Token, resp.ExpiresAt)
	respondSuccess(w, http.StatusOK, resp)
}

// Refresh exchanges a refresh session for a new token pair.
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	resp, err := h.auth.Refresh(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrSessionExpired) {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid or expired session", nil)
			return
		}
		respondDBError(w, err)
		return
	}

	h.setTokenCookie(w, resp.Token, resp.ExpiresAt)
	respondSuccess(w, http.StatusOK, resp)
}

// Logout destroys the given refresh session and clears the token cookie.
// POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if err := h.auth.Logout(r.Context(), req.SessionID); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
		respondDBError(w, err)
		return
	}

	h.clearTokenCookie(w)
	respondSuccess(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// LogoutAll destroys every refresh session of the authenticated user.
// POST /api/v1/auth/logout-all
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	removed, err := h.auth.LogoutAll(r.Context(), claims.UserID)
	if err != nil {
		respondDBError(w, err)
		return
	}

	h.clearTokenCookie(w)
	respondSuccess(w, http.StatusOK, map[string]int{"sessions_removed": removed})
}

// Me returns the authenticated user's profile.
// GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	user, err := h.db.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondDBError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, user)
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
