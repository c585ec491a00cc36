// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/margoul1Malin/sendup/internal/metrics"
	"github.com/margoul1Malin/sendup/internal/models"
)

// CourseFilter narrows ListCourses results. Zero values mean "any".
type CourseFilter struct {
	TransporterID string
	Status        models.CourseStatus
	ActiveOnly    bool
	Limit         int
	Offset        int
}

// Candidate window around an expedition's departure date. Courses departing
// earlier than 7 days before or later than 30 days after the desired date
// never score on the date signal and are not worth loading.
const (
	candidateWindowBefore = 7 * 24 * time.Hour
	candidateWindowAfter  = 30 * 24 * time.Hour
)

// courseColumns joins the transporter summary so scoring and display never
// need a second lookup.
const courseColumns = `c.id, c.transporter_id, c.departure_city, c.arrival_city, c.stops,
	c.departure_date, c.estimated_arrival, c.max_weight, c.price_per_kg,
	c.min_package_weight, c.max_package_weight, c.vehicle_class, c.available_spaces,
	c.status, c.is_active, c.created_at, c.updated_at,
	u.username, u.rating, u.review_count`

const courseFrom = ` FROM courses c JOIN users u ON u.id = c.transporter_id`

// CreateCourse inserts a new course for a transporter.
func (db *DB) CreateCourse(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = course.CreatedAt
	if course.Status == "" {
		course.Status = models.CourseAvailable
	}

	stops, err := encodeStops(course.Stops)
	if err != nil {
		return err
	}

	query := `INSERT INTO courses (
		id, transporter_id, departure_city, arrival_city, stops,
		departure_date, estimated_arrival, max_weight, price_per_kg,
		min_package_weight, max_package_weight, vehicle_class, available_spaces,
		status, is_active, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query,
		course.ID, course.TransporterID, course.DepartureCity, course.ArrivalCity, stops,
		course.DepartureDate, course.EstimatedArrival, course.MaxWeight, course.PricePerKg,
		course.MinPackageWeight, course.MaxPackageWeight, course.VehicleClass, course.AvailableSpaces,
		course.Status, course.IsActive, course.CreatedAt, course.UpdatedAt,
	)
	metrics.RecordDBQuery("insert", "courses", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetCourse retrieves a course by ID, with its transporter summary joined in.
func (db *DB) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + courseFrom + ` WHERE c.id = ?`

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, id)
	course, err := scanCourse(row)
	metrics.RecordDBQuery("select", "courses", time.Since(start), err)
	return course, err
}

// ListCourses retrieves courses matching the filter, soonest departure first.
func (db *DB) ListCourses(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + courseFrom + ` WHERE 1=1`
	args := []any{}

	if filter.TransporterID != "" {
		query += " AND c.transporter_id = ?"
		args = append(args, filter.TransporterID)
	}
	if filter.Status != "" {
		query += " AND c.status = ?"
		args = append(args, filter.Status)
	}
	if filter.ActiveOnly {
		query += " AND c.is_active = true"
	}
	query += " ORDER BY c.departure_date ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	return db.queryCourses(ctx, query, args...)
}

// CandidateCourses loads the bookable courses around an expedition's
// departure date. City and capacity filtering is the matching engine's job;
// this query only prunes by status, activity and the date window.
func (db *DB) CandidateCourses(ctx context.Context, departureDate time.Time) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + courseFrom + `
		WHERE c.status = ? AND c.is_active = true
		AND c.departure_date >= ? AND c.departure_date <= ?
		ORDER BY c.departure_date ASC`

	return db.queryCourses(ctx, query,
		models.CourseAvailable,
		departureDate.Add(-candidateWindowBefore),
		departureDate.Add(candidateWindowAfter),
	)
}

// UpdateCourseStatus transitions a course to a new status. The ownerID guard
// rejects updates from anyone but the posting transporter; pass an empty
// ownerID to skip the check.
func (db *DB) UpdateCourseStatus(ctx context.Context, id, ownerID string, status models.CourseStatus) error {
	course, err := db.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != "" && course.TransporterID != ownerID {
		return ErrNotOwner
	}
	if !courseTransitionAllowed(course.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, course.Status, status)
	}

	query := `UPDATE courses SET status = ?, updated_at = ? WHERE id = ?`

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query, status, time.Now().UTC(), id)
	metrics.RecordDBQuery("update", "courses", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update course status: %w", err)
	}

	return nil
}

// SetCourseActive flips the visibility toggle without touching the lifecycle
// status. Inactive courses are hidden from matching and listings.
func (db *DB) SetCourseActive(ctx context.Context, id, ownerID string, active bool) error {
	course, err := db.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != "" && course.TransporterID != ownerID {
		return ErrNotOwner
	}

	query := `UPDATE courses SET is_active = ?, updated_at = ? WHERE id = ?`

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query, active, time.Now().UTC(), id)
	metrics.RecordDBQuery("update", "courses", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update course visibility: %w", err)
	}

	return nil
}

// courseTransitionAllowed encodes the course lifecycle: available <-> full,
// either can complete or cancel, and terminal states never change.
func courseTransitionAllowed(from, to models.CourseStatus) bool {
	switch from {
	case models.CourseAvailable:
		return to == models.CourseFull || to == models.CourseCancelled || to == models.CourseCompleted
	case models.CourseFull:
		return to == models.CourseAvailable || to == models.CourseCancelled || to == models.CourseCompleted
	default:
		return false
	}
}

func (db *DB) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "courses", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer closeQuietly(rows)

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		var stops string
		if err := rows.Scan(&c.ID, &c.TransporterID, &c.DepartureCity, &c.ArrivalCity, &stops,
			&c.DepartureDate, &c.EstimatedArrival, &c.MaxWeight, &c.PricePerKg,
			&c.MinPackageWeight, &c.MaxPackageWeight, &c.VehicleClass, &c.AvailableSpaces,
			&c.Status, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
			&c.Transporter.Name, &c.Transporter.Rating, &c.Transporter.ReviewCount); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		c.Transporter.ID = c.TransporterID
		if c.Stops, err = decodeStops(stops); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

func scanCourse(row *sql.Row) (*models.Course, error) {
	var c models.Course
	var stops string
	err := row.Scan(&c.ID, &c.TransporterID, &c.DepartureCity, &c.ArrivalCity, &stops,
		&c.DepartureDate, &c.EstimatedArrival, &c.MaxWeight, &c.PricePerKg,
		&c.MinPackageWeight, &c.MaxPackageWeight, &c.VehicleClass, &c.AvailableSpaces,
		&c.Status, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		&c.Transporter.Name, &c.Transporter.Rating, &c.Transporter.ReviewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	c.Transporter.ID = c.TransporterID
	if c.Stops, err = decodeStops(stops); err != nil {
		return nil, err
	}
	return &c, nil
}

func encodeStops(stops []string) (string, error) {
	if len(stops) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(stops)
	if err != nil {
		return "", fmt.Errorf("failed to encode stops: %w", err)
	}
	return string(data), nil
}

func decodeStops(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var stops []string
	if err := json.Unmarshal([]byte(raw), &stops); err != nil {
		return nil, fmt.Errorf("failed to decode stops: %w", err)
	}
	return stops, nil
}
