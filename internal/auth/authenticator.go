package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrMissingCredentials = errors.New("login and password are required")

// Poster sends a JSON POST and decodes the response
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Credentials is the body of POST /login
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SignUp is the body of POST /register
type SignUp struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Login     string `json:"login"`
	Password  string `json:"password"`
}

// User is the backend's response to login and register
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Login     string `json:"login"`
	Token     string `json:"token"`
}

// Authenticator logs the shopper in and out, keeping the Session in step:
// a returned token is persisted, any failure clears it.
type Authenticator struct {
	client  Poster
	session *Session
	log     *zap.Logger
}

func NewAuthenticator(client Poster, session *Session, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{
		client:  client,
		session: session,
		log:     log,
	}
}

func (a *Authenticator) Login(ctx context.Context, creds Credentials) (*User, error) {
	if creds.Login == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}
	return a.authenticate(ctx, "/login", creds)
}

func (a *Authenticator) Register(ctx context.Context, signUp SignUp) (*User, error) {
	if signUp.Login == "" || signUp.Password == "" {
		return nil, ErrMissingCredentials
	}
	return a.authenticate(ctx, "/register", signUp)
}

// Logout forgets the persisted token
func (a *Authenticator) Logout(ctx context.Context) error {
	return a.session.SetToken(ctx, "")
}

func (a *Authenticator) authenticate(ctx context.Context, path string, body any) (*User, error) {
	var user User
	if err := a.client.Post(ctx, path, body, &user); err != nil {
		a.clearToken(ctx)
		return nil, err
	}
	if user.Token == "" {
		a.clearToken(ctx)
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidToken)
	}
	if err := a.session.SetToken(ctx, user.Token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	a.log.Info("authenticated", zap.String("login", user.Login), zap.String("path", path))
	return &user, nil
}

func (a *Authenticator) clearToken(ctx context.Context) {
	if err := a.session.SetToken(ctx, ""); err != nil {
		a.log.Warn("failed to clear auth token", zap.Error(err))
	}
}
