// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError carries a machine-readable code plus a human-readable message.
//
// Common codes: VALIDATION_ERROR, AUTHENTICATION_ERROR, AUTHORIZATION_ERROR,
// NOT_FOUND, CONFLICT, DATABASE_ERROR, RATE_LIMIT_EXCEEDED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RegisterRequest creates a new marketplace account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=12,max=128"`
	Role     Role   `json:"role" validate:"required,oneof=client transporter"`
}

// LoginRequest authenticates an existing account.
// Password travels in plaintext; HTTPS is required in production.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed JWT plus a refresh session ID.
type LoginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
}

// RefreshRequest exchanges a refresh session for a new JWT.
type RefreshRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

// RecommendationsResponse is the payload of the recommendation endpoint:
// the top-N matches plus the total number of courses that survived filtering,
// so the client can display "N matches found, showing top 3".
type RecommendationsResponse struct {
	Recommendations interface{} `json:"recommendations"`
	Total           int         `json:"total"`
}
