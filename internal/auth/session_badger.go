// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/margoul1Malin/sendup/internal/logging"
)

// Key prefixes for BadgerDB storage.
const (
	sessionKeyPrefix     = "session:"
	sessionUserKeyPrefix = "session_user:"
)

// BadgerSessionStore implements SessionStore on BadgerDB for durable storage.
// Sessions survive restarts; Badger's native TTL reaps expired entries.
type BadgerSessionStore struct {
	db *badger.DB
}

// NewBadgerSessionStore opens (or creates) a Badger database at path.
func NewBadgerSessionStore(path string) (*BadgerSessionStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store at %s: %w", path, err)
	}

	logging.Info().Str("component", "sessions").Str("path", path).Msg("Session store ready")

	return &BadgerSessionStore{db: db}, nil
}

// Create stores a new session. Entries carry a Badger TTL matching the
// session expiry so storage reclaims itself.
func (s *BadgerSessionStore) Create(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		sessionKey := []byte(sessionKeyPrefix + session.ID)
		entry := badger.NewEntry(sessionKey, data).WithTTL(ttl)
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set session: %w", err)
		}

		// User-to-session mapping for DeleteByUserID
		userKey := []byte(sessionUserKeyPrefix + session.UserID + ":" + session.ID)
		userEntry := badger.NewEntry(userKey, []byte(session.ID)).WithTTL(ttl)
		if err := txn.SetEntry(userEntry); err != nil {
			return fmt.Errorf("set user mapping: %w", err)
		}

		return nil
	})
}

// Get retrieves a live session by ID.
func (s *BadgerSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var session Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}

	// Badger TTL has second granularity; double-check the expiry.
	if session.Expired() {
		_ = s.Delete(ctx, id)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Delete removes a session and its user mapping.
func (s *BadgerSessionStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		var session Session
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		}); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}

		if err := txn.Delete([]byte(sessionKeyPrefix + id)); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		userKey := []byte(sessionUserKeyPrefix + session.UserID + ":" + id)
		if err := txn.Delete(userKey); err != nil {
			return fmt.Errorf("delete user mapping: %w", err)
		}
		return nil
	})
}

// DeleteByUserID removes all sessions for a user, e.g. on password change.
func (s *BadgerSessionStore) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	removed := 0

	err := s.db.Update(func(txn *badger.Txn) error {
		prefix := []byte(sessionUserKeyPrefix + userID + ":")

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		var sessionIDs []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var id string
			if err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return fmt.Errorf("read user mapping: %w", err)
			}
			sessionIDs = append(sessionIDs, id)
		}

		for _, id := range sessionIDs {
			if err := txn.Delete([]byte(sessionKeyPrefix + id)); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			if err := txn.Delete([]byte(sessionUserKeyPrefix + userID + ":" + id)); err != nil {
				return fmt.Errorf("delete user mapping: %w", err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

// Count returns the number of stored sessions.
func (s *BadgerSessionStore) Count(ctx context.Context) (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Close closes the underlying Badger database.
func (s *BadgerSessionStore) Close() error {
	return s.db.Close()
}
