// Package session holds the authenticated staff identity for one dashboard.
// The session lives in memory only: nothing is written to disk, and a new
// process always starts logged out.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/models"
)

// Reason tells teardown listeners why a session ended.
type Reason string

const (
	ReasonLogout       Reason = "logout"
	ReasonHidden       Reason = "hidden"
	ReasonUnloading    Reason = "unloading"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonExpired      Reason = "expired"
)

type Session struct {
	UserID    uint      `json:"id"`
	Name      string    `json:"nombre"`
	Username  string    `json:"usuario"`
	Role      string    `json:"rol"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Token     string    `json:"-"`
}

// Valid reports whether the session can still authorize requests at now.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Authenticator performs the backend login exchange.
type Authenticator interface {
	Authenticate(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
}

type (
	LoginListener    func(Session)
	TeardownListener func(Reason, Session)
)

// Store is the only owner of the session. Concurrent Login calls are not
// serialized: the last one to complete wins.
type Store struct {
	auth   Authenticator
	logger *slog.Logger
	now    func() time.Time

	// lifecycle serializes a login's commit and listeners against teardowns,
	// so listeners always observe login and teardown in the order they
	// happened. Listeners run with it held and must not call back into
	// Login, Logout or the signals.
	lifecycle sync.Mutex

	mu      sync.Mutex
	current *Session
	// epoch increases on every teardown signal so an in-flight login can
	// tell it was overtaken.
	epoch uint64

	onLogin    []LoginListener
	onTeardown []TeardownListener
}

func NewStore(auth Authenticator, logger *slog.Logger, now func() time.Time) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		auth:   auth,
		logger: logger.With("component", "session"),
		now:    now,
	}
}

// OnLogin registers fn to run after every successful login.
func (s *Store) OnLogin(fn LoginListener) {
	s.mu.Lock()
	s.onLogin = append(s.onLogin, fn)
	s.mu.Unlock()
}

// OnTeardown registers fn to run whenever an existing session is destroyed.
func (s *Store) OnTeardown(fn TeardownListener) {
	s.mu.Lock()
	s.onTeardown = append(s.onTeardown, fn)
	s.mu.Unlock()
}

func (s *Store) Login(ctx context.Context, creds models.Credentials) (*Session, error) {
	s.mu.Lock()
	started := s.epoch
	s.mu.Unlock()

	resp, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		authErr := classify(err)
		s.logger.Warn("login failed", "usuario", creds.Username, "kind", authErr.Kind, "status", authErr.Status)
		return nil, authErr
	}
	if resp == nil || resp.AccessToken == "" {
		return nil, &AuthError{Kind: ServerError, Detail: "Respuesta inválida del servidor"}
	}

	sess := &Session{
		UserID:    resp.User.ID,
		Name:      resp.User.Name,
		Username:  resp.User.Username,
		Role:      resp.User.Role,
		ExpiresAt: tokenExpiry(resp.AccessToken),
		Token:     resp.AccessToken,
	}
	if !sess.Valid(s.now()) {
		return nil, &AuthError{Kind: ServerError, Detail: "El servidor devolvió un token vencido"}
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if s.epoch != started {
		s.mu.Unlock()
		s.logger.Warn("login discarded after teardown", "usuario", sess.Username)
		return nil, &AuthError{Kind: Interrupted}
	}
	s.current = sess
	listeners := append([]LoginListener(nil), s.onLogin...)
	s.mu.Unlock()

	s.logger.Info("login", "user_id", sess.UserID, "usuario", sess.Username, "rol", sess.Role)
	for _, fn := range listeners {
		fn(*sess)
	}

	out := *sess
	return &out, nil
}

// Logout clears the session. Calling it without a session is a no-op.
func (s *Store) Logout() {
	s.teardown(ReasonLogout)
}

// OnHidden is the "page visibility changed to hidden" signal.
func (s *Store) OnHidden() {
	s.teardown(ReasonHidden)
}

// OnUnloading is the "page about to unload" signal.
func (s *Store) OnUnloading() {
	s.teardown(ReasonUnloading)
}

// TeardownUnauthorized ends the session after the backend rejected its
// token. The resulting state equals Logout; listeners see a distinct reason.
func (s *Store) TeardownUnauthorized() {
	s.teardown(ReasonUnauthorized)
}

// Current returns a copy of the live session, or nil.
func (s *Store) Current() *Session {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()

	if sess == nil {
		return nil
	}
	if !sess.Valid(s.now()) {
		s.end(ReasonExpired, sess)
		return nil
	}
	out := *sess
	return &out
}

// Token returns the bearer token of the live session, or "".
func (s *Store) Token() string {
	if sess := s.Current(); sess != nil {
		return sess.Token
	}
	return ""
}

func (s *Store) teardown(reason Reason) {
	s.end(reason, nil)
}

// end destroys the session. With only set, it clears the session only if it
// is still that one, and leaves in-flight logins alone.
func (s *Store) end(reason Reason, only *Session) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if only != nil && s.current != only {
		s.mu.Unlock()
		return
	}
	if only == nil {
		s.epoch++
	}
	prev := s.current
	s.current = nil
	listeners := append([]TeardownListener(nil), s.onTeardown...)
	s.mu.Unlock()

	if prev == nil {
		return
	}

	s.logger.Info("session ended", "user_id", prev.UserID, "reason", reason)
	for _, fn := range listeners {
		fn(reason, *prev)
	}
}

func classify(err error) *AuthError {
	var re *httperr.RepositoryError
	if errors.As(err, &re) {
		switch re.Kind {
		case httperr.KindUnauthorized:
			return &AuthError{Kind: InvalidCredentials, Status: re.HTTPStatus, Err: err}
		case httperr.KindUnreachable:
			return &AuthError{Kind: NetworkUnavailable, Err: err}
		default:
			return &AuthError{Kind: ServerError, Status: re.HTTPStatus, Detail: re.Detail, Err: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AuthError{Kind: NetworkUnavailable, Err: err}
	}
	return &AuthError{Kind: ServerError, Err: err}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend is the one that verifies. Non-JWT tokens never expire locally.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
