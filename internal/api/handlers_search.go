// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package api

import (
	"net/http"

	"github.com/margoul1Malin/sendup/internal/database"
	"github.com/margoul1Malin/sendup/internal/models"
	"github.com/margoul1Malin/sendup/internal/ranking"
)

// Search runs the multi-criteria ranking over open marketplace listings.
//
// type=expeditions ranks pending expeditions, type=courses ranks available
// active courses. The criteria parameter is a comma-separated list of
// criterion names; unknown names are ignored and an empty list preserves the
// listing order.
//
// GET /api/v1/search?type=courses&criteria=earliest,price_low&limit=&offset=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	searchType := r.URL.Query().Get("type")
	active := ranking.ActiveSet(parseCommaSeparated(r.URL.Query().Get("criteria")))
	limit, offset := h.pagination(getIntParam(r, "limit", 0), getIntParam(r, "offset", 0))

	switch searchType {
	case "expeditions":
		expeditions, err := h.db.ListExpeditions(r.Context(), database.ExpeditionFilter{
			Status: models.ExpeditionPending,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			respondDBError(w, err)
			return
		}
		ranked := ranking.Rank(expeditions, ranking.ExpeditionCriteria(), active)
		respondSuccess(w, http.StatusOK, ranked)

	case "courses":
		courses, err := h.db.ListCourses(r.Context(), database.CourseFilter{
			Status:     models.CourseAvailable,
			ActiveOnly: true,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			respondDBError(w, err)
			return
		}
		ranked := ranking.Rank(courses, ranking.CourseCriteria(), active)
		respondSuccess(w, http.StatusOK, ranked)

	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"type must be \"expeditions\" or \"courses\"", nil)
	}
}
