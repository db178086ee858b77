// Package session holds the persisted client credentials (access token,
// refresh token, current user) and the explicit session-expiry hook.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/chantier/internal/domain"
)

// ErrNoSession indicates no credentials are persisted.
var ErrNoSession = errors.New("not logged in")

// State is the persisted client state. It is written and cleared as a unit.
type State struct {
	AccessToken  string       `json:"access"`
	RefreshToken string       `json:"refresh,omitempty"`
	User         *domain.User `json:"user,omitempty"`
	APIBaseURL   string       `json:"api_base_url,omitempty"`
}

// Empty reports whether no credential is present.
func (s State) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// Store persists State. Clear must remove every field atomically.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, st State) error
	Clear(ctx context.Context) error
}

// ExpiredFunc is invoked once the session has been torn down after an
// irrecoverable refresh failure.
type ExpiredFunc func(ctx context.Context, cause error)

// Context is the session handle injected into the transport. Every read
// goes to the backing store so several processes sharing it stay in sync.
type Context struct {
	store     Store
	onExpired ExpiredFunc
	logger    *slog.Logger

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// Option configures a Context.
type Option func(*Context)

// WithOnExpired registers the session-expiry callback.
func WithOnExpired(fn ExpiredFunc) Option {
	return func(c *Context) { c.onExpired = fn }
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewContext creates a Context over store.
func NewContext(store Store, opts ...Option) *Context {
	c := &Context{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the persisted state.
func (c *Context) State(ctx context.Context) (State, error) {
	st, err := c.store.Load(ctx)
	if err != nil {
		return State{}, fmt.Errorf("loading session: %w", err)
	}
	return st, nil
}

// AccessToken returns the current access token, or "" when logged out or
// the store is unreadable.
func (c *Context) AccessToken(ctx context.Context) string {
	st, err := c.State(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "session_load_failed", "error", err.Error())
		return ""
	}
	return st.AccessToken
}

// RefreshToken returns the current refresh token, or "".
func (c *Context) RefreshToken(ctx context.Context) string {
	st, err := c.State(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "session_load_failed", "error", err.Error())
		return ""
	}
	return st.RefreshToken
}

// CurrentUser returns the user persisted at login.
func (c *Context) CurrentUser(ctx context.Context) (*domain.User, error) {
	st, err := c.State(ctx)
	if err != nil {
		return nil, err
	}
	if st.Empty() {
		return nil, ErrNoSession
	}
	if st.User == nil {
		return nil, fmt.Errorf("session has no user record")
	}
	return st.User, nil
}

// Establish replaces the persisted state, typically after a login.
func (c *Context) Establish(ctx context.Context, st State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st.AccessToken == "" {
		return fmt.Errorf("establishing session: access token is required")
	}
	if err := c.store.Save(ctx, st); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Rotate stores a refreshed access token. A non-empty refresh token
// replaces the stored one (rotating refresh tokens).
func (c *Context) Rotate(ctx context.Context, access, refresh string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	st.AccessToken = access
	if refresh != "" {
		st.RefreshToken = refresh
	}
	if err := c.store.Save(ctx, st); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Logout clears the persisted state.
func (c *Context) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Expire tears the session down after an irrecoverable refresh failure and
// invokes the expiry callback. Clearing errors are logged, not returned:
// the caller is already failing with the session-expired error.
func (c *Context) Expire(ctx context.Context, cause error) {
	if err := c.Logout(ctx); err != nil {
		c.logger.ErrorContext(ctx, "session_clear_failed", "error", err.Error())
	}
	c.logger.InfoContext(ctx, "session_expired", "cause", errString(cause))
	if c.onExpired != nil {
		c.onExpired(ctx, cause)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
