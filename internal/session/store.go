// Package session holds the authenticated identity and bearer token for the
// running portal. The store is the only component allowed to mutate session
// state, with one sanctioned exception: the gateway's unauthorized handler
// calls HandleUnauthorized to evict a session the backend has rejected.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
	"github.com/clearance-asce/portal/internal/gateway"
)

// Cache persists the session between runs: the browser-local key/value
// store analogue. Load returns a not-found error when nothing is cached.
type Cache interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, sess domain.Session) error
	Clear(ctx context.Context) error
}

// Authenticator is the subset of the gateway the store needs: the two named
// operations that sit outside the generic JSON path.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.Token, error)
	CurrentUser(ctx context.Context) (domain.User, error)
}

// Options configures a session store.
type Options struct {
	// Auth performs credential exchange and identity fetch. Required.
	Auth Authenticator

	// Cache persists sessions between runs. Nil disables persistence.
	Cache Cache

	// TTL bounds how old a cached session may be before Restore refuses
	// to even attempt revalidation. Zero means 12 hours.
	TTL time.Duration

	// OnLogout is the navigation hook: invoked whenever the store
	// transitions to logged-out, including evictions. May be nil.
	OnLogout func()

	Logger *slog.Logger
}

// Store is the in-memory session holder. Safe for concurrent use.
type Store struct {
	auth     Authenticator
	cache    Cache
	ttl      time.Duration
	onLogout func()
	logger   *slog.Logger

	mu      sync.Mutex
	current domain.Session
}

// New creates a session store. It starts logged out; call Restore to pick
// up a cached session.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{
		auth:     opts.Auth,
		cache:    opts.Cache,
		ttl:      ttl,
		onLogout: opts.OnLogout,
		logger:   logger,
	}
}

// Token returns the current bearer token, or empty when logged out. This is
// the gateway's read-only view of the session.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

// IsAuthenticated reports whether an identity is installed.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Valid()
}

// Current returns the authenticated identity and whether one is present.
func (s *Store) Current() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.User, s.current.Valid()
}

// Role returns the authenticated role, or empty when logged out.
func (s *Store) Role() domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current.Valid() {
		return ""
	}
	return s.current.User.Role
}

// Login exchanges credentials for a token, then fetches the identity that
// token represents. Session state is mutated only after both steps succeed,
// so a failure leaves the store exactly as it was.
func (s *Store) Login(ctx context.Context, username, password string) (domain.User, error) {
	tok, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return domain.User{}, err
	}

	// The identity fetch must use the new token even though the store has
	// not installed it yet.
	user, err := s.auth.CurrentUser(gateway.WithToken(ctx, tok.AccessToken))
	if err != nil {
		return domain.User{}, err
	}

	sess := domain.Session{User: user, Token: tok.AccessToken, SavedAt: time.Now()}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.persist(ctx, sess)
	return user, nil
}

// Restore loads a cached session, optimistically installs it, then
// revalidates against the backend. Any validation failure - expiry,
// revocation, network - clears all session state: after Restore returns, the
// store is either fully authenticated with a confirmed identity or fully
// logged out, never in between.
func (s *Store) Restore(ctx context.Context) (domain.User, error) {
	if s.cache == nil {
		return domain.User{}, apperrors.NotFound("no session cache configured")
	}

	cached, err := s.cache.Load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !cached.Valid() || cached.Expired(s.ttl) {
		s.clearCache(ctx)
		return domain.User{}, apperrors.NotFound("cached session expired")
	}

	// Optimistic install so the UI can render the last known identity
	// while revalidation is in flight.
	s.mu.Lock()
	s.current = cached
	s.mu.Unlock()

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		// Distinguishing expiry from network failure is deliberately not
		// attempted; both mean the session cannot be trusted.
		s.logger.InfoContext(ctx, "session revalidation failed, logging out", "error", err)
		s.evict(ctx)
		return domain.User{}, err
	}

	refreshed := domain.Session{User: user, Token: cached.Token, SavedAt: time.Now()}
	s.mu.Lock()
	s.current = refreshed
	s.mu.Unlock()
	s.persist(ctx, refreshed)

	return user, nil
}

// Logout clears all session state and fires the navigation hook. Calling it
// while already logged out is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.evict(ctx)
}

// HandleUnauthorized is the gateway's 401 hook. It performs the same
// teardown as Logout; the triggering call's error still propagates to its
// caller through the gateway.
func (s *Store) HandleUnauthorized() {
	s.evict(context.Background())
}

func (s *Store) evict(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.current.Valid()
	s.current = domain.Session{}
	s.mu.Unlock()

	s.clearCache(ctx)

	// The navigation hook fires only on an authenticated to logged-out
	// transition. A 401 eviction and the error handling of the call that
	// triggered it may both land here; the user is told once.
	if wasAuthenticated && s.onLogout != nil {
		s.onLogout()
	}
}

func (s *Store) persist(ctx context.Context, sess domain.Session) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, sess); err != nil {
		s.logger.WarnContext(ctx, "persist session failed", "error", err)
	}
}

func (s *Store) clearCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear session cache failed", "error", err)
	}
}
