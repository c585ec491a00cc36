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
	"github.com/margoul1Malin/sendup/internal/database"
	"github.com/margoul1Malin/sendup/internal/models"
)

type activeUpdateRequest struct {
	IsActive bool `json:"is_active"`
}

// CreateCourse posts a new route offer owned by the calling transporter.
// POST /api/v1/courses
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	var course models.Course
	if err := decodeJSON(r, &course); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	course.ID = ""
	course.TransporterID = claims.UserID
	course.Status = models.CourseAvailable
	course.IsActive = true
	if course.AvailableSpaces == 0 {
		course.AvailableSpaces = 1
	}

	if apiErr := validateRequest(&course); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}

	if err := h.db.CreateCourse(r.Context(), &course); err != nil {
		respondDBError(w, err)
		return
	}

	h.logger.Info().Str("course_id", course.ID).Str("transporter_id", course.TransporterID).Msg("Course created")
	respondSuccess(w, http.StatusCreated, course)
}

// GetCourse fetches a single course by ID, transporter summary included.
// GET /api/v1/courses/{id}
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.db.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, course)
}

// ListCourses lists courses, filterable by transporter_id, status and an
// active=true flag that restricts to bookable courses.
// GET /api/v1/courses?transporter_id=&status=&active=&limit=&offset=
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.pagination(getIntParam(r, "limit", 0), getIntParam(r, "offset", 0))

	filter := database.CourseFilter{
		TransporterID: r.URL.Query().Get("transporter_id"),
		Status:        models.CourseStatus(r.URL.Query().Get("status")),
		ActiveOnly:    r.URL.Query().Get("active") == "true",
		Limit:         limit,
		Offset:        offset,
	}

	courses, err := h.db.ListCourses(r.Context(), filter)
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, courses)
}

// UpdateCourseStatus advances a course through its lifecycle. Only the
// transporter who owns it may do this; admins bypass the ownership check.
// PATCH /api/v1/courses/{id}/status
func (h *Handler) UpdateCourseStatus(w http.ResponseWriter, r *http.Request) {
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

	if err := h.db.UpdateCourseStatus(r.Context(), chi.URLParam(r, "id"), ownerID, models.CourseStatus(req.Status)); err != nil {
		respondDBError(w, err)
		return
	}

	course, err := h.db.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, course)
}

// SetCourseActive pauses or resumes a course without touching its lifecycle
// status. Inactive courses never appear in recommendations.
// PATCH /api/v1/courses/{id}/active
func (h *Handler) SetCourseActive(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing access token", nil)
		return
	}

	var req activeUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	ownerID := claims.UserID
	if claims.Role == string(models.RoleAdmin) {
		ownerID = ""
	}

	if err := h.db.SetCourseActive(r.Context(), chi.URLParam(r, "id"), ownerID, req.IsActive); err != nil {
		respondDBError(w, err)
		return
	}

	course, err := h.db.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDBError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, course)
}
