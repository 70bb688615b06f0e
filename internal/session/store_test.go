package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

// fakeAuth scripts the gateway's two named operations.
type fakeAuth struct {
	loginToken string
	loginErr   error
	user       domain.User
	userErr    error

	// onUser runs inside CurrentUser, the way the real gateway fires its
	// unauthorized hook before the error reaches the caller.
	onUser func()

	loginCalls int
	userCalls  int
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (domain.Token, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return domain.Token{}, f.loginErr
	}
	return domain.Token{AccessToken: f.loginToken, TokenType: "bearer"}, nil
}

func (f *fakeAuth) CurrentUser(_ context.Context) (domain.User, error) {
	f.userCalls++
	if f.onUser != nil {
		f.onUser()
	}
	if f.userErr != nil {
		return domain.User{}, f.userErr
	}
	return f.user, nil
}

// memCache is an in-memory Cache.
type memCache struct {
	sess   domain.Session
	loaded bool
}

func (m *memCache) Load(context.Context) (domain.Session, error) {
	if !m.loaded {
		return domain.Session{}, apperrors.NotFound("no cached session")
	}
	return m.sess, nil
}

func (m *memCache) Save(_ context.Context, sess domain.Session) error {
	m.sess = sess
	m.loaded = true
	return nil
}

func (m *memCache) Clear(context.Context) error {
	m.sess = domain.Session{}
	m.loaded = false
	return nil
}

func staffUser() domain.User {
	return domain.User{ID: 7, Username: "amaka", FullName: "Amaka O.", Role: domain.RoleStaff}
}

func TestLogin_Success(t *testing.T) {
	auth := &fakeAuth{loginToken: "abc", user: staffUser()}
	cache := &memCache{}
	store := New(Options{Auth: auth, Cache: cache})

	user, err := store.Login(context.Background(), "amaka", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, user.Role)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, domain.RoleStaff, store.Role())
	assert.Equal(t, "abc", store.Token())
	assert.True(t, cache.loaded, "session persisted on success")
}

func TestLogin_CredentialFailureLeavesStateUntouched(t *testing.T) {
	auth := &fakeAuth{loginErr: apperrors.Unauthorized("Incorrect username or password")}
	store := New(Options{Auth: auth})

	_, err := store.Login(context.Background(), "amaka", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", apperrors.UserMessage(err))
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestLogin_IdentityFetchFailureLeavesStateUntouched(t *testing.T) {
	auth := &fakeAuth{loginToken: "abc", userErr: errors.New("connection reset")}
	cache := &memCache{}
	store := New(Options{Auth: auth, Cache: cache})

	_, err := store.Login(context.Background(), "amaka", "s3cret")

	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.False(t, cache.loaded)
}

func TestRestore_RevalidatesCachedSession(t *testing.T) {
	cached := domain.Session{User: staffUser(), Token: "abc", SavedAt: time.Now()}
	auth := &fakeAuth{user: staffUser()}
	cache := &memCache{sess: cached, loaded: true}
	store := New(Options{Auth: auth, Cache: cache})

	user, err := store.Restore(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "amaka", user.Username)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, 1, auth.userCalls)
}

func TestRestore_ValidationFailureClearsEverything(t *testing.T) {
	cached := domain.Session{User: staffUser(), Token: "stale", SavedAt: time.Now()}
	auth := &fakeAuth{userErr: apperrors.Unauthorized("Could not validate credentials")}
	cache := &memCache{sess: cached, loaded: true}

	var navigations int
	store := New(Options{Auth: auth, Cache: cache, OnLogout: func() { navigations++ }})

	_, err := store.Restore(context.Background())

	require.Error(t, err)
	// No partial or stale-authenticated state is observable afterwards.
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.False(t, cache.loaded, "cache cleared")
	assert.Equal(t, 1, navigations)
}

func TestRestore_NetworkFailureAlsoClears(t *testing.T) {
	cached := domain.Session{User: staffUser(), Token: "abc", SavedAt: time.Now()}
	auth := &fakeAuth{userErr: errors.New("dial tcp: i/o timeout")}
	cache := &memCache{sess: cached, loaded: true}
	store := New(Options{Auth: auth, Cache: cache})

	_, err := store.Restore(context.Background())

	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestRestore_ExpiredCacheIsNotRevalidated(t *testing.T) {
	cached := domain.Session{User: staffUser(), Token: "abc", SavedAt: time.Now().Add(-13 * time.Hour)}
	auth := &fakeAuth{user: staffUser()}
	cache := &memCache{sess: cached, loaded: true}
	store := New(Options{Auth: auth, Cache: cache, TTL: 12 * time.Hour})

	_, err := store.Restore(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, auth.userCalls, "no backend call for an expired cache entry")
	assert.False(t, store.IsAuthenticated())
}

func TestRestore_NoCachedSession(t *testing.T) {
	auth := &fakeAuth{}
	store := New(Options{Auth: auth, Cache: &memCache{}})

	_, err := store.Restore(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLogout_Idempotent(t *testing.T) {
	auth := &fakeAuth{loginToken: "abc", user: staffUser()}
	cache := &memCache{}

	var navigations int
	store := New(Options{Auth: auth, Cache: cache, OnLogout: func() { navigations++ }})

	_, err := store.Login(context.Background(), "amaka", "s3cret")
	require.NoError(t, err)

	store.Logout(context.Background())
	assert.False(t, store.IsAuthenticated())
	assert.False(t, cache.loaded)
	assert.Equal(t, 1, navigations)

	// Already logged out: no second navigation.
	store.Logout(context.Background())
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 1, navigations)
}

func TestHandleUnauthorized_EvictsSession(t *testing.T) {
	auth := &fakeAuth{loginToken: "abc", user: staffUser()}
	cache := &memCache{}

	var navigations int
	store := New(Options{Auth: auth, Cache: cache, OnLogout: func() { navigations++ }})

	_, err := store.Login(context.Background(), "amaka", "s3cret")
	require.NoError(t, err)
	require.True(t, store.IsAuthenticated())

	// The gateway fires this for a 401 from any feature's call.
	store.HandleUnauthorized()

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.False(t, cache.loaded)
	assert.Equal(t, 1, navigations)
}

func TestRestore_RevokedSessionNavigatesOnce(t *testing.T) {
	cached := domain.Session{User: staffUser(), Token: "abc", SavedAt: time.Now()}
	auth := &fakeAuth{userErr: apperrors.Unauthorized("Could not validate credentials")}
	cache := &memCache{sess: cached, loaded: true}

	var navigations int
	store := New(Options{Auth: auth, Cache: cache, OnLogout: func() { navigations++ }})
	// A 401 on the revalidation call goes through the gateway's hook
	// before Restore sees the error and evicts again.
	auth.onUser = store.HandleUnauthorized

	_, err := store.Restore(context.Background())

	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
	assert.False(t, cache.loaded)
	assert.Equal(t, 1, navigations)
}
