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

	"github.com/google/uuid"

	"github.com/margoul1Malin/sendup/internal/metrics"
	"github.com/margoul1Malin/sendup/internal/models"
)

const offerColumns = `id, expedition_id, course_id, sender_id, price, message, status, created_at, updated_at`

// CreateOffer inserts a new pending offer linking an expedition to a course.
func (db *DB) CreateOffer(ctx context.Context, offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now().UTC()
	}
	offer.UpdatedAt = offer.CreatedAt
	offer.Status = models.OfferPending

	query := `INSERT INTO offers (` + offerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		offer.ID, offer.ExpeditionID, offer.CourseID, offer.SenderID,
		offer.Price, offer.Message, offer.Status, offer.CreatedAt, offer.UpdatedAt,
	)
	metrics.RecordDBQuery("insert", "offers", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	metrics.RecordOfferTransition(string(models.OfferPending))

	return nil
}

// GetOffer retrieves an offer by ID.
func (db *DB) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = ?`

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, id)
	offer, err := scanOffer(row)
	metrics.RecordDBQuery("select", "offers", time.Since(start), err)
	return offer, err
}

// ListOffersForExpedition retrieves all offers on an expedition, newest first.
func (db *DB) ListOffersForExpedition(ctx context.Context, expeditionID string) ([]models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE expedition_id = ? ORDER BY created_at DESC`
	return db.queryOffers(ctx, query, expeditionID)
}

// ListOffersForCourse retrieves all offers on a course, newest first.
func (db *DB) ListOffersForCourse(ctx context.Context, courseID string) ([]models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE course_id = ? ORDER BY created_at DESC`
	return db.queryOffers(ctx, query, courseID)
}

// WithdrawOffer retracts a pending offer. Only its sender may withdraw.
func (db *DB) WithdrawOffer(ctx context.Context, id, senderID string) error {
	offer, err := db.GetOffer(ctx, id)
	if err != nil {
		return err
	}
	if offer.SenderID != senderID {
		return ErrNotOwner
	}
	if offer.Status != models.OfferPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, offer.Status, models.OfferWithdrawn)
	}

	return db.setOfferStatus(ctx, id, models.OfferWithdrawn)
}

// RejectOffer declines a pending offer.
func (db *DB) RejectOffer(ctx context.Context, id string) error {
	offer, err := db.GetOffer(ctx, id)
	if err != nil {
		return err
	}
	if offer.Status != models.OfferPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, offer.Status, models.OfferRejected)
	}

	return db.setOfferStatus(ctx, id, models.OfferRejected)
}

// AcceptOffer accepts a pending offer atomically: the offer becomes accepted,
// competing pending offers on the same expedition are rejected, one space on
// the course is consumed (the course goes full at zero), and the expedition
// moves to matched.
func (db *DB) AcceptOffer(ctx context.Context, id string) error {
	start := time.Now()
	err := db.acceptOfferTx(ctx, id)
	metrics.RecordDBQuery("transaction", "offers", time.Since(start), err)
	if err != nil {
		return err
	}
	metrics.RecordOfferTransition(string(models.OfferAccepted))
	return nil
}

func (db *DB) acceptOfferTx(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = ?`, id)
	offer, err := scanOffer(row)
	if err != nil {
		return err
	}
	if offer.Status != models.OfferPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, offer.Status, models.OfferAccepted)
	}

	var spaces int
	var courseStatus models.CourseStatus
	err = tx.QueryRowContext(ctx,
		`SELECT available_spaces, status FROM courses WHERE id = ?`, offer.CourseID,
	).Scan(&spaces, &courseStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCourseNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load course: %w", err)
	}
	if courseStatus != models.CourseAvailable || spaces < 1 {
		return ErrNoCapacity
	}

	now := time.Now().UTC()

	if _, err := tx.ExecContext(ctx,
		`UPDATE offers SET status = ?, updated_at = ? WHERE id = ?`,
		models.OfferAccepted, now, id); err != nil {
		return fmt.Errorf("failed to accept offer: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE offers SET status = ?, updated_at = ? WHERE expedition_id = ? AND status = ? AND id != ?`,
		models.OfferRejected, now, offer.ExpeditionID, models.OfferPending, id); err != nil {
		return fmt.Errorf("failed to reject competing offers: %w", err)
	}

	newStatus := models.CourseAvailable
	if spaces-1 == 0 {
		newStatus = models.CourseFull
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE courses SET available_spaces = ?, status = ?, updated_at = ? WHERE id = ?`,
		spaces-1, newStatus, now, offer.CourseID); err != nil {
		return fmt.Errorf("failed to consume course capacity: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE expeditions SET status = ?, updated_at = ? WHERE id = ?`,
		models.ExpeditionMatched, now, offer.ExpeditionID); err != nil {
		return fmt.Errorf("failed to mark expedition matched: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit offer acceptance: %w", err)
	}

	return nil
}

func (db *DB) setOfferStatus(ctx context.Context, id string, status models.OfferStatus) error {
	query := `UPDATE offers SET status = ?, updated_at = ? WHERE id = ?`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, status, time.Now().UTC(), id)
	metrics.RecordDBQuery("update", "offers", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update offer status: %w", err)
	}
	metrics.RecordOfferTransition(string(status))

	return nil
}

func (db *DB) queryOffers(ctx context.Context, query string, args ...any) ([]models.Offer, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "offers", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer closeQuietly(rows)

	offers := []models.Offer{}
	for rows.Next() {
		var o models.Offer
		if err := rows.Scan(&o.ID, &o.ExpeditionID, &o.CourseID, &o.SenderID,
			&o.Price, &o.Message, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, o)
	}

	return offers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (*models.Offer, error) {
	var o models.Offer
	err := row.Scan(&o.ID, &o.ExpeditionID, &o.CourseID, &o.SenderID,
		&o.Price, &o.Message, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan offer: %w", err)
	}
	return &o, nil
}
