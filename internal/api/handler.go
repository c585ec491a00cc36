// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package api

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/margoul1Malin/sendup/internal/auth"
	"github.com/margoul1Malin/sendup/internal/config"
	"github.com/margoul1Malin/sendup/internal/database"
	"github.com/margoul1Malin/sendup/internal/logging"
	"github.com/margoul1Malin/sendup/internal/matching"
)

// Handler holds the dependencies shared by all HTTP endpoints.
type Handler struct {
	db        *database.DB
	auth      *auth.Service
	engine    *matching.Engine
	cfg       *config.Config
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates the API handler.
func NewHandler(db *database.DB, authService *auth.Service, engine *matching.Engine, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		auth:      authService,
		engine:    engine,
		cfg:       cfg,
		logger:    logging.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}

// pagination resolves limit/offset query parameters against the configured
// page size bounds.
func (h *Handler) pagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = h.cfg.API.DefaultPageSize
	}
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
