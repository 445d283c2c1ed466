// Package session holds the current user and the access token lifecycle,
// and answers the permission questions used to gate management actions.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bissquit/statusdash/internal/apiclient"
	"github.com/bissquit/statusdash/internal/domain"
	"github.com/bissquit/statusdash/internal/pkg/ctxlog"
	"github.com/golang-jwt/jwt/v5"
)

// Authenticator performs the backend calls the session lifecycle needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, in apiclient.RegisterRequest) (*apiclient.AuthResponse, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// Session is the authentication state of one user agent. It is safe for
// concurrent use and implements apiclient.TokenSource.
type Session struct {
	store TokenStore
	auth  Authenticator
	now   func() time.Time

	mu    sync.RWMutex
	token string
	user  *domain.User
}

// New creates an anonymous session. Call Hydrate to restore a persisted token.
func New(store TokenStore, auth Authenticator) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{
		store: store,
		auth:  auth,
		now:   time.Now,
	}
}

// Token returns the current access token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns a copy of the current user, or nil when anonymous.
func (s *Session) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is loaded.
func (s *Session) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// IsAdmin reports whether the user has the admin role or is a superuser.
func (s *Session) IsAdmin() bool {
	u := s.CurrentUser()
	return u != nil && u.IsAdmin()
}

// IsManagerOrAdmin reports whether the user is a manager, an admin or a superuser.
func (s *Session) IsManagerOrAdmin() bool {
	u := s.CurrentUser()
	return u != nil && u.IsManagerOrAdmin()
}

// IsSuperuser reports whether the user is a superuser.
func (s *Session) IsSuperuser() bool {
	u := s.CurrentUser()
	return u != nil && u.IsSuperuser
}

// Capabilities summarizes the permission predicates.
type Capabilities struct {
	Authenticated  bool `json:"authenticated"`
	Admin          bool `json:"admin"`
	ManagerOrAdmin bool `json:"manager_or_admin"`
	Superuser      bool `json:"superuser"`
}

// Capabilities evaluates all predicates against one user snapshot.
func (s *Session) Capabilities() Capabilities {
	u := s.CurrentUser()
	if u == nil {
		return Capabilities{}
	}
	return Capabilities{
		Authenticated:  true,
		Admin:          u.IsAdmin(),
		ManagerOrAdmin: u.IsManagerOrAdmin(),
		Superuser:      u.IsSuperuser,
	}
}

// Hydrate restores the session from the persisted token.
//
// A missing token leaves the session anonymous. An expired JWT or a 401
// from the current-user call clears the persisted token and leaves the
// session anonymous without error. Any other failure keeps the token so a
// transient outage does not log the user out.
func (s *Session) Hydrate(ctx context.Context) error {
	token, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		s.set("", nil)
		return nil
	}

	if s.expired(token) {
		ctxlog.FromContext(ctx).Info("stored token expired, clearing")
		return s.clear(ctx)
	}

	user, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			ctxlog.FromContext(ctx).Info("stored token rejected, clearing")
			return s.clear(ctx)
		}
		s.set(token, nil)
		return fmt.Errorf("fetch current user: %w", err)
	}

	s.set(token, user)
	return nil
}

// Login authenticates with credentials, persists the token and loads the user.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

// Register creates an account and signs in. When the backend does not
// return a token for the new account, the credentials are used to log in.
func (s *Session) Register(ctx context.Context, in apiclient.RegisterRequest) (*domain.User, error) {
	resp, err := s.auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return s.Login(ctx, in.Email, in.Password)
	}
	return s.establish(ctx, resp)
}

// Logout clears the persisted token and the in-memory state.
func (s *Session) Logout(ctx context.Context) error {
	return s.clear(ctx)
}

func (s *Session) establish(ctx context.Context, resp *apiclient.AuthResponse) (*domain.User, error) {
	user := resp.User
	if user == nil {
		var err error
		user, err = s.auth.CurrentUser(ctx, resp.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("fetch current user: %w", err)
		}
	}

	if err := s.store.Save(ctx, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	s.set(resp.AccessToken, user)

	u := *user
	return &u, nil
}

func (s *Session) clear(ctx context.Context) error {
	s.set("", nil)
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *Session) set(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// expired reports whether token is a JWT whose exp claim has passed.
// Opaque tokens are left for the backend to judge.
func (s *Session) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}
