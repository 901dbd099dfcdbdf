package auth

import (
	"context"
	"time"

	"github.com/example/guitar-shop/internal/infrastructure/store"
	"go.uber.org/zap"
)

// TokenKey is the storage key the auth token is persisted under
const TokenKey = "auth_token"

// Session holds the persisted auth token. It implements api.TokenSource.
type Session struct {
	storage store.Storage
	log     *zap.Logger
	now     func() time.Time
}

func NewSession(storage store.Storage, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// Token returns the persisted token, or "" when there is none. A token whose
// claims show it has expired is cleared and treated as absent. Opaque
// (non-JWT) tokens are passed through unchanged.
func (s *Session) Token(ctx context.Context) string {
	data, found, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn("failed to read auth token", zap.Error(err))
		return ""
	}
	if !found || len(data) == 0 {
		return ""
	}

	token := string(data)
	if claims, err := ParseClaims(token); err == nil && claims.Expired(s.now()) {
		s.log.Info("auth token expired, clearing", zap.Time("expired_at", claims.ExpiresAt.Time))
		if err := s.SetToken(ctx, ""); err != nil {
			s.log.Warn("failed to clear expired auth token", zap.Error(err))
		}
		return ""
	}
	return token
}

// SetToken persists token; an empty token removes it.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.storage.Delete(ctx, TokenKey)
	}
	return s.storage.Set(ctx, TokenKey, []byte(token))
}

// Claims returns the decoded claims of the current token, if it is a JWT.
func (s *Session) Claims(ctx context.Context) (*Claims, error) {
	token := s.Token(ctx)
	if token == "" {
		return nil, ErrInvalidToken
	}
	return ParseClaims(token)
}

// LoggedIn reports whether a usable token is present
func (s *Session) LoggedIn(ctx context.Context) bool {
	return s.Token(ctx) != ""
}
