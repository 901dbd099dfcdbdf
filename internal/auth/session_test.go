package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/guitar-shop/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*Session, *mocks.MockStorage) {
	storage := mocks.NewMockStorage()
	return NewSession(storage, nil), storage
}

func TestSession_NoToken(t *testing.T) {
	session, _ := newTestSession()

	assert.Empty(t, session.Token(context.Background()))
	assert.False(t, session.LoggedIn(context.Background()))
}

func TestSession_SetAndGetToken(t *testing.T) {
	session, storage := newTestSession()
	ctx := context.Background()

	require.NoError(t, session.SetToken(ctx, "opaque-token"))

	assert.Equal(t, "opaque-token", session.Token(ctx))
	stored, ok := storage.Data(TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "opaque-token", string(stored))
}

func TestSession_SetEmptyTokenRemovesIt(t *testing.T) {
	session, storage := newTestSession()
	ctx := context.Background()

	require.NoError(t, session.SetToken(ctx, "tok"))
	require.NoError(t, session.SetToken(ctx, ""))

	_, ok := storage.Data(TokenKey)
	assert.False(t, ok)
	assert.Equal(t, []string{TokenKey}, storage.DeleteCalls)
}

func TestSession_ExpiredTokenIsCleared(t *testing.T) {
	session, storage := newTestSession()
	ctx := context.Background()

	expired := signToken(t, "user-1", "a@b.co", time.Now().Add(-time.Hour))
	storage.SetData(TokenKey, []byte(expired))

	assert.Empty(t, session.Token(ctx))
	_, ok := storage.Data(TokenKey)
	assert.False(t, ok)
}

func TestSession_Claims(t *testing.T) {
	session, storage := newTestSession()
	ctx := context.Background()

	storage.SetData(TokenKey, []byte(signToken(t, "user-9", "slash@example.com", time.Now().Add(time.Hour))))

	claims, err := session.Claims(ctx)

	require.NoError(t, err)
	assert.Equal(t, "slash@example.com", claims.Email)
}

func TestSession_ClaimsWithoutToken(t *testing.T) {
	session, _ := newTestSession()

	claims, err := session.Claims(context.Background())

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestSession_StorageErrorMeansNoToken(t *testing.T) {
	session, storage := newTestSession()
	storage.GetErr = errors.New("disk unavailable")

	assert.Empty(t, session.Token(context.Background()))
}
