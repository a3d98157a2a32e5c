package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/alfredjeanlab/dateadmin/internal/client"
	"github.com/alfredjeanlab/dateadmin/internal/model"
)

// ErrTokenExpired is returned by Bootstrap when the stored token's exp
// claim is in the past.
var ErrTokenExpired = errors.New("stored token has expired")

// Verifier resolves the user a token belongs to.
type Verifier interface {
	Me(ctx context.Context) (*model.User, error)
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*client.LoginResult, error)
}

// Store is the session container shared by every console component.
type Store struct {
	mu     sync.RWMutex
	state  State
	tokens TokenStore
	log    logrus.FieldLogger
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l logrus.FieldLogger) StoreOption {
	return func(s *Store) { s.log = l }
}

// WithClock overrides time.Now for token expiry checks.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store and hydrates the token from durable storage.
// The user is not authenticated until Bootstrap or a login succeeds.
func NewStore(tokens TokenStore, opts ...StoreOption) (*Store, error) {
	s := &Store{
		tokens: tokens,
		log:    logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	token, err := tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("hydrating session: %w", err)
	}
	s.state.Token = token
	return s, nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Token returns the current bearer token. It is the API client's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Dispatch applies a to the state and performs its persistence side effect.
// The in-memory transition happens even if persistence fails; the error is
// returned so the caller can warn.
func (s *Store) Dispatch(a Action) error {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.mu.Unlock()

	s.log.WithField("action", a.actionName()).Debug("session transition")

	var err error
	switch act := a.(type) {
	case LoginSuccess:
		if err = s.tokens.Save(act.Token); err != nil {
			err = fmt.Errorf("persisting token: %w", err)
		}
	case Logout:
		if err = s.tokens.Clear(); err != nil {
			err = fmt.Errorf("clearing token: %w", err)
		}
	}
	if err != nil {
		s.log.WithError(err).Warn("session storage")
	}
	return err
}

// Login authenticates against the backend and records the session.
func (s *Store) Login(ctx context.Context, auth Authenticator, email, password string) error {
	_ = s.Dispatch(SetLoading{Loading: true})
	defer func() {
		if s.State().Loading {
			_ = s.Dispatch(SetLoading{Loading: false})
		}
	}()

	res, err := auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if res.Token == "" {
		return errors.New("login response did not include a token")
	}
	return s.Dispatch(LoginSuccess{User: res.User, Token: res.Token})
}

// Logout calls remote (if non-nil) to end the server session and then
// always clears local state, even when the remote call fails.
func (s *Store) Logout(ctx context.Context, remote func(context.Context) error) (err error) {
	defer func() {
		if clearErr := s.Dispatch(Logout{}); clearErr != nil && err == nil {
			err = clearErr
		}
	}()
	if remote != nil {
		if rerr := remote(ctx); rerr != nil {
			s.log.WithError(rerr).Warn("remote logout failed; clearing local session anyway")
			return fmt.Errorf("remote logout: %w", rerr)
		}
	}
	return nil
}

// Bootstrap turns a hydrated token into an authenticated session by asking
// the backend who it belongs to. The token is never trusted without that
// round trip:
//   - no token: nothing to do
//   - token with an exp claim in the past: logged out, ErrTokenExpired
//   - verifier says 401/403: logged out, error returned
//   - any other verifier failure: stays unauthenticated, token kept, error returned
func (s *Store) Bootstrap(ctx context.Context, v Verifier) error {
	token := s.Token()
	if token == "" {
		return nil
	}

	if expired(token, s.now()) {
		_ = s.Dispatch(Logout{})
		return ErrTokenExpired
	}

	_ = s.Dispatch(SetLoading{Loading: true})
	user, err := v.Me(ctx)
	if err != nil {
		_ = s.Dispatch(SetLoading{Loading: false})
		if client.IsUnauthorized(err) {
			_ = s.Dispatch(Logout{})
			return fmt.Errorf("stored token rejected: %w", err)
		}
		return fmt.Errorf("verifying stored token: %w", err)
	}
	return s.Dispatch(LoginSuccess{User: *user, Token: token})
}

// expired reports whether token is a JWT whose exp claim is before now.
// Opaque tokens and JWTs without exp are left to the server to judge.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
