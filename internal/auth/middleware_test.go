// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/margoul1Malin/sendup/internal/models"
)

func protectedHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("claims missing from context in protected handler")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if claims.UserID != wantUserID {
			t.Errorf("UserID = %q, want %q", claims.UserID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateBearerHeader(t *testing.T) {
	m := newTestJWTManager(t, time.Minute)
	token, _, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatal(err)
	}

	handler := Authenticate(m)(protectedHandler(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticateCookie(t *testing.T) {
	m := newTestJWTManager(t, time.Minute)
	token, _, err := m.GenerateToken(testUser())
	if err != nil {
		t.Fatal(err)
	}

	handler := Authenticate(m)(protectedHandler(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	m := newTestJWTManager(t, time.Minute)
	handler := Authenticate(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a valid token")
	}))

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no token", func(*http.Request) {}},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	m := newTestJWTManager(t, time.Minute)

	tokenFor := func(role models.Role) string {
		user := testUser()
		user.Role = role
		token, _, err := m.GenerateToken(user)
		if err != nil {
			t.Fatal(err)
		}
		return token
	}

	tests := []struct {
		name     string
		required []models.Role
		role     models.Role
		want     int
	}{
		{"matching role", []models.Role{models.RoleTransporter}, models.RoleTransporter, http.StatusOK},
		{"wrong role", []models.Role{models.RoleTransporter}, models.RoleClient, http.StatusForbidden},
		{"admin always passes", []models.Role{models.RoleTransporter}, models.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler = RequireRole(tt.required...)(handler)
			handler = Authenticate(m)(handler)

			req := httptest.NewRequest(http.MethodPost, "/courses", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(tt.role))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	handler := RequireRole(models.RoleClient)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without claims")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
