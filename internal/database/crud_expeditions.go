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

// ExpeditionFilter narrows ListExpeditions results. Zero values mean "any".
type ExpeditionFilter struct {
	ClientID string
	Status   models.ExpeditionStatus
	Limit    int
	Offset   int
}

const expeditionColumns = `id, client_id, departure_city, arrival_city, departure_date,
	weight, volume, declared_value, fragile, requires_heavy, max_budget,
	urgency, status, created_at, updated_at`

// CreateExpedition inserts a new expedition for a client.
func (db *DB) CreateExpedition(ctx context.Context, exp *models.Expedition) error {
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = now
	}
	exp.UpdatedAt = exp.CreatedAt
	if exp.Status == "" {
		exp.Status = models.ExpeditionPending
	}
	if exp.Urgency == "" {
		exp.Urgency = models.UrgencyNormal
	}

	query := `INSERT INTO expeditions (` + expeditionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		exp.ID, exp.ClientID, exp.DepartureCity, exp.ArrivalCity, exp.DepartureDate,
		exp.Weight, exp.Volume, exp.DeclaredValue, exp.Fragile, exp.RequiresHeavy,
		exp.MaxBudget, exp.Urgency, exp.Status, exp.CreatedAt, exp.UpdatedAt,
	)
	metrics.RecordDBQuery("insert", "expeditions", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create expedition: %w", err)
	}

	return nil
}

// GetExpedition retrieves an expedition by ID.
func (db *DB) GetExpedition(ctx context.Context, id string) (*models.Expedition, error) {
	query := `SELECT ` + expeditionColumns + ` FROM expeditions WHERE id = ?`

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, id)
	exp, err := scanExpedition(row)
	metrics.RecordDBQuery("select", "expeditions", time.Since(start), err)
	return exp, err
}

// ListExpeditions retrieves expeditions matching the filter, most recent first.
func (db *DB) ListExpeditions(ctx context.Context, filter ExpeditionFilter) ([]models.Expedition, error) {
	query := `SELECT ` + expeditionColumns + ` FROM expeditions WHERE 1=1`
	args := []any{}

	if filter.ClientID != "" {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "expeditions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list expeditions: %w", err)
	}
	defer closeQuietly(rows)

	expeditions := []models.Expedition{}
	for rows.Next() {
		var e models.Expedition
		if err := rows.Scan(&e.ID, &e.ClientID, &e.DepartureCity, &e.ArrivalCity, &e.DepartureDate,
			&e.Weight, &e.Volume, &e.DeclaredValue, &e.Fragile, &e.RequiresHeavy, &e.MaxBudget,
			&e.Urgency, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expedition: %w", err)
		}
		expeditions = append(expeditions, e)
	}

	return expeditions, rows.Err()
}

// UpdateExpeditionStatus transitions an expedition to a new status.
// The ownerID guard rejects updates from anyone but the posting client;
// pass an empty ownerID to skip the check (admin or internal callers).
func (db *DB) UpdateExpeditionStatus(ctx context.Context, id, ownerID string, status models.ExpeditionStatus) error {
	exp, err := db.GetExpedition(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != "" && exp.ClientID != ownerID {
		return ErrNotOwner
	}
	if !expeditionTransitionAllowed(exp.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, exp.Status, status)
	}

	query := `UPDATE expeditions SET status = ?, updated_at = ? WHERE id = ?`

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, query, status, time.Now().UTC(), id)
	metrics.RecordDBQuery("update", "expeditions", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update expedition status: %w", err)
	}

	return nil
}

// DeleteExpedition removes an expedition. Only the posting client may delete,
// and only while no offer has been accepted.
func (db *DB) DeleteExpedition(ctx context.Context, id, ownerID string) error {
	exp, err := db.GetExpedition(ctx, id)
	if err != nil {
		return err
	}
	if exp.ClientID != ownerID {
		return ErrNotOwner
	}
	if exp.Status != models.ExpeditionPending && exp.Status != models.ExpeditionCancelled {
		return fmt.Errorf("%w: cannot delete expedition in status %s", ErrInvalidTransition, exp.Status)
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `DELETE FROM expeditions WHERE id = ?`, id)
	metrics.RecordDBQuery("delete", "expeditions", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete expedition: %w", err)
	}

	return nil
}

// expeditionTransitionAllowed encodes the expedition lifecycle:
// pending -> matched -> in_transit -> delivered, with cancellation possible
// until the shipment is in transit.
func expeditionTransitionAllowed(from, to models.ExpeditionStatus) bool {
	switch from {
	case models.ExpeditionPending:
		return to == models.ExpeditionMatched || to == models.ExpeditionCancelled
	case models.ExpeditionMatched:
		return to == models.ExpeditionInTransit || to == models.ExpeditionCancelled
	case models.ExpeditionInTransit:
		return to == models.ExpeditionDelivered
	default:
		return false
	}
}

func scanExpedition(row *sql.Row) (*models.Expedition, error) {
	var e models.Expedition
	err := row.Scan(&e.ID, &e.ClientID, &e.DepartureCity, &e.ArrivalCity, &e.DepartureDate,
		&e.Weight, &e.Volume, &e.DeclaredValue, &e.Fragile, &e.RequiresHeavy, &e.MaxBudget,
		&e.Urgency, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExpeditionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expedition: %w", err)
	}
	return &e, nil
}
