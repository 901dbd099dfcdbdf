package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signToken issues a token the way the backend does
func signToken(t *testing.T, userID, email string, expiresAt time.Time) string {
	t.Helper()

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("backend-secret-the-client-never-sees"))
	require.NoError(t, err)
	return tokenString
}

func TestParseClaims_Valid(t *testing.T) {
	token := signToken(t, "user-456", "jimi@example.com", time.Now().Add(15*time.Minute))

	claims, err := ParseClaims(token)

	require.NoError(t, err)
	assert.Equal(t, "user-456", claims.UserID)
	assert.Equal(t, "jimi@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "user-456", claims.Subject)
	assert.False(t, claims.Expired(time.Now()))
}

func TestParseClaims_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseClaims(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Now()
	token := signToken(t, "user-123", "", now.Add(-time.Minute))

	// Parsing succeeds without verification even though the token is stale
	claims, err := ParseClaims(token)
	require.NoError(t, err)

	assert.True(t, claims.Expired(now))
	assert.False(t, claims.Expired(now.Add(-2*time.Minute)))
}

func TestClaims_NoExpiry(t *testing.T) {
	claims := &Claims{}
	assert.False(t, claims.Expired(time.Now()))
}

func TestClaims_Name(t *testing.T) {
	assert.Equal(t, "a@b.co", (&Claims{Email: "a@b.co", UserID: "u"}).Name())
	assert.Equal(t, "u", (&Claims{UserID: "u"}).Name())
	assert.Equal(t, "sub", (&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub"}}).Name())
}
