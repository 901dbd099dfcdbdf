package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents the JWT claims the backend issues
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the claims of a backend-issued token without verifying
// its signature. The storefront holds no signing key; the backend remains
// the authority and this is only used to drop tokens that are already stale.
func ParseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Expired reports whether the claims carry an expiry at or before now.
// Tokens without an exp claim never expire client-side.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// Name returns the best display name available in the claims
func (c *Claims) Name() string {
	switch {
	case c.Email != "":
		return c.Email
	case c.UserID != "":
		return c.UserID
	default:
		return c.Subject
	}
}
