package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"accommodation_portal/internal/models"
	"accommodation_portal/internal/repositories"
	"accommodation_portal/internal/testutil"
	"accommodation_portal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	db := testutil.NewTestDB(t, &models.Session{}, &models.SessionItem{})
	return NewStore(db, repositories.NewSessionRepository(), ttl)
}

func TestSessionWritesAreVisibleToNextRequest(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	sess.SetItem("token", "abc")
	sess.SetItem("user", `{"id":1}`)
	sess.SetItem("token", "def")
	sess.RemoveItem("user")
	require.NoError(t, sess.Err())

	reloaded, err := store.Load(ctx, sess.ID())
	require.NoError(t, err)

	token, ok := reloaded.GetItem("token")
	assert.True(t, ok)
	assert.Equal(t, "def", token)
	_, ok = reloaded.GetItem("user")
	assert.False(t, ok)
	assert.Equal(t, []string{"token"}, reloaded.Keys())
}

func TestLoadOrCreate(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	fresh, created, err := store.LoadOrCreate(ctx, "")
	require.NoError(t, err)
	assert.True(t, created)

	same, created, err := store.LoadOrCreate(ctx, fresh.ID())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, fresh.ID(), same.ID())

	replaced, created, err := store.LoadOrCreate(ctx, "unknown-id")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", replaced.ID())
}

func TestExpiredSessions(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	sess.SetItem("token", "abc")

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = store.Load(ctx, sess.ID())
	assert.True(t, errors.Is(err, apperrors.ErrSessionExpired))

	deleted, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestLoadExtendsAgingSession(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	created := sess.ExpiresAt()

	store.now = func() time.Time { return time.Now().Add(40 * time.Minute) }
	reloaded, err := store.Load(ctx, sess.ID())
	require.NoError(t, err)
	assert.True(t, reloaded.ExpiresAt().After(created))
}

func TestDestroy(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	sess.SetItem("token", "abc")

	require.NoError(t, store.Destroy(ctx, sess.ID()))
	_, err = store.Load(ctx, sess.ID())
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
}

func TestCookieRoundTrip(t *testing.T) {
	opts := CookieOptions{Secure: true, MaxAge: time.Hour}
	rec := httptest.NewRecorder()
	WriteCookie(rec, " abc ", opts)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	id, ok := ReadCookie(req, opts)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = ReadCookie(httptest.NewRequest(http.MethodGet, "/", nil), opts)
	assert.False(t, ok)
}
