package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/repositories"
	"accommodation_portal/internal/reservation"
	"accommodation_portal/internal/services"
	"accommodation_portal/internal/session"
	"accommodation_portal/internal/testutil"
	"accommodation_portal/internal/web/flash"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	engine  *gin.Engine
	store   *session.Store
	backend *testutil.FakeBackend
	cookie  session.CookieOptions
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewTestDB(t, &models.Session{}, &models.SessionItem{})
	backend := testutil.NewFakeBackend(t)
	store := session.NewStore(db, repositories.NewSessionRepository(), time.Hour)
	cookie := session.CookieOptions{MaxAge: time.Hour}
	client := apiclient.New(apiclient.Options{BaseURL: backend.BaseURL()})

	engine := gin.New()
	engine.Use(RequestIDMiddleware(), SessionMiddleware(store, client, cookie), NavigationMiddleware())
	return &harness{engine: engine, store: store, backend: backend, cookie: cookie}
}

// signIn creates a session holding an opaque token and user.
func (h *harness) signIn(t *testing.T, role models.UserRole) *http.Cookie {
	t.Helper()
	sess, err := h.store.Create(context.Background())
	require.NoError(t, err)
	raw, err := json.Marshal(models.User{ID: 9, Username: "ann", Role: role})
	require.NoError(t, err)
	sess.SetItem(apiclient.TokenKey, "opaque-token")
	sess.SetItem(apiclient.UserKey, string(raw))
	require.NoError(t, sess.Err())
	return &http.Cookie{Name: session.DefaultCookieName, Value: sess.ID()}
}

func (h *harness) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionMiddlewareIssuesAndReusesCookie(t *testing.T) {
	h := newHarness(t)
	var seen []string
	h.engine.GET("/ping", func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		require.True(t, ok)
		_, ok = Services(c)
		require.True(t, ok)
		seen = append(seen, sess.ID())
		c.String(http.StatusOK, "pong")
	})

	first := h.get("/ping")
	require.Equal(t, http.StatusOK, first.Code)
	cookie := findCookie(first, session.DefaultCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, first.Header().Get("X-Request-ID"))

	second := h.get("/ping", cookie)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Nil(t, findCookie(second, session.DefaultCookieName))
	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
}

func TestSessionMiddlewareReplacesUnknownSession(t *testing.T) {
	h := newHarness(t)
	h.engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := h.get("/ping", &http.Cookie{Name: session.DefaultCookieName, Value: "gone"})
	cookie := findCookie(rec, session.DefaultCookieName)
	require.NotNil(t, cookie)
	assert.NotEqual(t, "gone", cookie.Value)
}

func TestRequireAuth(t *testing.T) {
	h := newHarness(t)
	h.engine.GET("/admin/users", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})

	t.Run("anonymous visitor is sent to login", func(t *testing.T) {
		rec := h.get("/admin/users?page=2")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?from=%2Fadmin%2Fusers%3Fpage%3D2", rec.Header().Get("Location"))
	})

	t.Run("signed in user passes", func(t *testing.T) {
		rec := h.get("/admin/users", h.signIn(t, models.UserRoleSuperAdmin))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ann", rec.Body.String())
	})
}

func TestRequireRolesRedirectsWithFlash(t *testing.T) {
	h := newHarness(t)
	h.engine.GET("/admin/reports", RequireAuth(), RequireRoles(models.UserRoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := h.get("/admin/reports", h.signIn(t, models.UserRoleMember))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookie := findCookie(rec, flash.CookieName)
	require.NotNil(t, cookie)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	notice, ok := flash.ReadAndClear(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, "Insufficient permissions", notice.Message)

	rec = h.get("/admin/reports", h.signIn(t, models.UserRoleSuperAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReservationStageGuard(t *testing.T) {
	h := newHarness(t)
	h.engine.GET(reservation.PaymentPath, ReservationStage(reservation.StagePayment), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := h.get(reservation.PaymentPath)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, reservation.BookingPath, rec.Header().Get("Location"))
}

func TestNavigationMiddlewareFollowsUnauthorized(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/buildings/", http.StatusUnauthorized, gin.H{"detail": "expired"})
	h.engine.GET("/admin/buildings", func(c *gin.Context) {
		registry, _ := Services(c)
		result := registry.Buildings.GetBuildings(c.Request.Context(), services.BuildingFilter{})
		assert.False(t, result.Success)
	})

	cookie := h.signIn(t, models.UserRoleSuperAdmin)
	rec := h.get("/admin/buildings", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))

	sess, err := h.store.Load(context.Background(), cookie.Value)
	require.NoError(t, err)
	_, hasToken := sess.GetItem(apiclient.TokenKey)
	assert.False(t, hasToken)
}
