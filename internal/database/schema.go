// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package database

import (
	"context"
	"fmt"
	"time"
)

// createTables creates the marketplace tables if they do not exist.
// Stops are stored as a JSON array; DuckDB's native JSON type keeps the
// round-trip lossless without an extra table.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR PRIMARY KEY,
			email VARCHAR NOT NULL UNIQUE,
			username VARCHAR NOT NULL,
			password_hash VARCHAR NOT NULL,
			role VARCHAR NOT NULL,
			rating DOUBLE NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS expeditions (
			id VARCHAR PRIMARY KEY,
			client_id VARCHAR NOT NULL,
			departure_city VARCHAR NOT NULL,
			arrival_city VARCHAR NOT NULL,
			departure_date TIMESTAMP NOT NULL,
			weight DOUBLE NOT NULL,
			volume DOUBLE NOT NULL,
			declared_value DOUBLE,
			fragile BOOLEAN NOT NULL DEFAULT false,
			requires_heavy BOOLEAN NOT NULL DEFAULT false,
			max_budget DOUBLE,
			urgency VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id VARCHAR PRIMARY KEY,
			transporter_id VARCHAR NOT NULL,
			departure_city VARCHAR NOT NULL,
			arrival_city VARCHAR NOT NULL,
			stops VARCHAR NOT NULL DEFAULT '[]',
			departure_date TIMESTAMP NOT NULL,
			estimated_arrival TIMESTAMP,
			max_weight DOUBLE NOT NULL,
			price_per_kg DOUBLE NOT NULL,
			min_package_weight DOUBLE NOT NULL DEFAULT 0,
			max_package_weight DOUBLE,
			vehicle_class VARCHAR NOT NULL,
			available_spaces INTEGER NOT NULL,
			status VARCHAR NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS offers (
			id VARCHAR PRIMARY KEY,
			expedition_id VARCHAR NOT NULL,
			course_id VARCHAR NOT NULL,
			sender_id VARCHAR NOT NULL,
			price DOUBLE NOT NULL,
			message VARCHAR NOT NULL DEFAULT '',
			status VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// createIndexes creates the secondary indexes used by the list queries.
func (db *DB) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_expeditions_client ON expeditions (client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expeditions_status ON expeditions (status)`,
		`CREATE INDEX IF NOT EXISTS idx_courses_transporter ON courses (transporter_id)`,
		`CREATE INDEX IF NOT EXISTS idx_courses_departure ON courses (departure_date)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_expedition ON offers (expedition_id)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_course ON offers (course_id)`,
	}

	for _, stmt := range indexes {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
