// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

// Package token issues and validates the JWT pairs used for bearer auth.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taxiunn/interactions/internal/models"
)

// Token type claim values.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrMissingSecret = errors.New("missing JWT secret in config")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
)

// Pair is an issued refresh/access token pair.
type Pair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// Claims is the JWT payload. UserID duplicates the subject as a numeric claim,
// matching what API clients already consume.
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager signs and validates HS256 token pairs.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager creates a Manager with the given signing secret and lifetimes.
func NewManager(secret string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssuePair issues a refresh/access pair for the employee.
func (m *Manager) IssuePair(e *models.Employee) (Pair, error) {
	refresh, err := m.sign(e.ID, TypeRefresh, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	access, err := m.sign(e.ID, TypeAccess, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Refresh: refresh, Access: access}, nil
}

// Refresh validates a refresh token and issues a new access token for the
// same employee.
func (m *Manager) Refresh(refreshToken string) (string, error) {
	claims, err := m.parse(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TypeRefresh {
		return "", ErrInvalidToken
	}
	return m.sign(claims.UserID, TypeAccess, m.accessTTL)
}

// ParseAccess validates an access token and returns the employee ID it was
// issued for.
func (m *Manager) ParseAccess(accessToken string) (int64, error) {
	claims, err := m.parse(accessToken)
	if err != nil {
		return 0, err
	}
	if claims.TokenType != TypeAccess {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (m *Manager) sign(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		TokenType: tokenType,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
