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

// CreateUser inserts a new user. The password must already be hashed.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO users (id, email, username, password_hash, role, rating, review_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.Role,
		user.Rating, user.ReviewCount, user.CreatedAt,
	)
	metrics.RecordDBQuery("insert", "users", time.Since(start), err)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, email, username, password_hash, role, rating, review_count, created_at
		FROM users WHERE id = ?`

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, id)
	user, err := scanUser(row)
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	return user, err
}

// GetUserByEmail retrieves a user by email, used by the login flow.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, username, password_hash, role, rating, review_count, created_at
		FROM users WHERE email = ?`

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, email)
	user, err := scanUser(row)
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	return user, err
}

// UpdateUserRating records a new review: the stored rating is the running
// average over review_count reviews.
func (db *DB) UpdateUserRating(ctx context.Context, userID string, rating float64) error {
	query := `UPDATE users SET
		rating = (rating * review_count + ?) / (review_count + 1),
		review_count = review_count + 1
		WHERE id = ?`

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, rating, userID)
	metrics.RecordDBQuery("update", "users", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update user rating: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.Rating, &u.ReviewCount, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
