// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/margoul1Malin/sendup/internal/config"
	"github.com/margoul1Malin/sendup/internal/database"
	"github.com/margoul1Malin/sendup/internal/logging"
	"github.com/margoul1Malin/sendup/internal/metrics"
	"github.com/margoul1Malin/sendup/internal/models"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so the
// login endpoint never reveals which of the two failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service ties the account store, token manager and session store into the
// register/login/refresh/logout flows.
type Service struct {
	db       *database.DB
	jwt      *JWTManager
	sessions SessionStore
	cfg      *config.SecurityConfig
	logger   zerolog.Logger
}

// NewService creates the authentication service.
func NewService(db *database.DB, jwtManager *JWTManager, sessions SessionStore, cfg *config.SecurityConfig) *Service {
	return &Service{
		db:       db,
		jwt:      jwtManager,
		sessions: sessions,
		cfg:      cfg,
		logger:   logging.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new account. Public registration only grants the client
// and transporter roles; admin accounts are provisioned out of band.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if req.Role != models.RoleClient && req.Role != models.RoleTransporter {
		metrics.RecordAuthAttempt("register", false)
		return nil, fmt.Errorf("role %q cannot be self-registered", req.Role)
	}

	hash, err := HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		metrics.RecordAuthAttempt("register", false)
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		metrics.RecordAuthAttempt("register", false)
		return nil, err
	}

	metrics.RecordAuthAttempt("register", true)
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("Account registered")

	return user, nil
}

// Login verifies credentials and issues an access token plus a refresh session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			metrics.RecordAuthAttempt("login", false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			metrics.RecordAuthAttempt("login", false)
			s.logger.Warn().Str("user_id", user.ID).Msg("Failed login attempt")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	resp, err := s.issueFor(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RecordAuthAttempt("login", true)
	return resp, nil
}

// Refresh exchanges a live refresh session for a fresh token pair. The old
// session is consumed: refresh tokens are single-use.
func (s *Service) Refresh(ctx context.Context, sessionID string) (*models.LoginResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", false)
		return nil, err
	}

	user, err := s.db.GetUserByID(ctx, session.UserID)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", false)
		return nil, err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return nil, err
	}

	resp, err := s.issueFor(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RecordAuthAttempt("refresh", true)
	return resp, nil
}

// Logout destroys a refresh session. The access token stays valid until its
// TTL runs out.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// LogoutAll destroys every refresh session of a user.
func (s *Service) LogoutAll(ctx context.Context, userID string) (int, error) {
	return s.sessions.DeleteByUserID(ctx, userID)
}

func (s *Service) issueFor(ctx context.Context, user *models.User) (*models.LoginResponse, error) {
	token, expiresAt, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	session := NewSession(user.ID, s.cfg.RefreshTTL)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create refresh session: %w", err)
	}

	if count, err := s.sessions.Count(ctx); err == nil {
		metrics.AuthActiveSessions.Set(float64(count))
	}

	return &models.LoginResponse{
		Token:     token,
		SessionID: session.ID,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
	}, nil
}
