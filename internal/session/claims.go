package session

import (
	"fmt"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the backend puts in its access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID    domain.ID `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	TokenType string    `json:"token_type,omitempty"`
}

// ParseClaims decodes a token's claims without verifying its signature.
// The client never holds the signing key; the claims are only used for
// display and local expiry bookkeeping.
func ParseClaims(token string) (*Claims, error) {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}
	return &c, nil
}

// ExpiresAt returns the exp claim of a JWT. ok is false for opaque tokens
// or tokens without exp.
func ExpiresAt(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	c, err := ParseClaims(token)
	if err != nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}
