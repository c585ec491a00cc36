// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package database

import (
	"errors"
	"strings"
)

// Sentinel errors returned by the data access methods. Handlers map these
// to HTTP status codes.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailConflict      = errors.New("user with this email already exists")
	ErrExpeditionNotFound = errors.New("expedition not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrOfferNotFound      = errors.New("offer not found")
	ErrNotOwner           = errors.New("resource belongs to another user")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNoCapacity         = errors.New("course has no remaining capacity")
)

// isUniqueConstraintError checks if an error is a unique constraint violation.
// DuckDB unique constraint error messages contain "UNIQUE constraint" or
// "Duplicate key".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") || strings.Contains(errMsg, "duplicate key")
}
