package app

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"accommodation_portal/internal/config"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/session"
	"accommodation_portal/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testPortal struct {
	db      *gorm.DB
	backend *testutil.FakeBackend
	server  *httptest.Server
	client  *http.Client
}

func newTestPortal(t *testing.T) *testPortal {
	t.Helper()

	backend := testutil.NewFakeBackend(t)
	db := testutil.NewTestDB(t)
	require.NoError(t, Migrate(db))

	cfg := config.Default()
	cfg.API.BaseURL = backend.BaseURL()

	router, err := SetupRouter(&cfg, initializeServices(&cfg, db))
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testPortal{db: db, backend: backend, server: server, client: client}
}

func (p *testPortal) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := p.client.Get(p.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (p *testPortal) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := p.client.PostForm(p.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func (p *testPortal) login(t *testing.T, role models.UserRole) {
	t.Helper()
	p.backend.Reply(http.MethodPost, "/auth/login/", http.StatusOK, gin.H{
		"tokens": gin.H{"access": "access-token", "refresh": "refresh-token"},
		"user": gin.H{
			"id":         7,
			"username":   "ada",
			"email":      "ada@example.com",
			"first_name": "Ada",
			"last_name":  "Admin",
			"role":       role,
		},
	})

	resp, _ := p.post(t, "/auth/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"secret-pass"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestPortal_AnonymousVisitorIsSentToLogin(t *testing.T) {
	p := newTestPortal(t)

	resp, _ := p.get(t, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?from=%2Fdashboard", resp.Header.Get("Location"))

	resp, _ = p.get(t, "/login?from=%2Fdashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?from=%2Fdashboard", resp.Header.Get("Location"))

	resp, body := p.get(t, "/auth/login?from=%2Fdashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="/dashboard"`)
	assert.NotEmpty(t, resp.Cookies(), "a session cookie is issued on first visit")
}

func (p *testPortal) sessionID(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(p.server.URL)
	require.NoError(t, err)
	for _, cookie := range p.client.Jar.Cookies(u) {
		if cookie.Name == session.DefaultCookieName {
			return cookie.Value
		}
	}
	return ""
}

func TestPortal_LogoutEndsSession(t *testing.T) {
	p := newTestPortal(t)
	p.login(t, models.UserRoleMember)
	p.backend.Reply(http.MethodPost, "/auth/logout/", http.StatusOK, gin.H{})

	id := p.sessionID(t)
	require.NotEmpty(t, id)

	resp, _ := p.post(t, "/auth/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
	assert.Empty(t, p.sessionID(t), "the session cookie is expired")

	var rows int64
	require.NoError(t, p.db.Model(&models.Session{}).Where("id = ?", id).Count(&rows).Error)
	assert.Zero(t, rows)

	resp, _ = p.get(t, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.NotEqual(t, id, p.sessionID(t))
}

func TestPortal_LoginThenDashboard(t *testing.T) {
	p := newTestPortal(t)
	p.backend.Reply(http.MethodGet, "/dashboard/summary/", http.StatusOK, gin.H{
		"success":   true,
		"role":      "SuperAdmin",
		"timestamp": "2024-05-01T10:00:00Z",
		"data": gin.H{
			"stats": gin.H{"total_users": 1234, "occupancy_rate": 75},
			"activities": []gin.H{
				{"id": 1, "title": "Room allocated", "description": "Room 101 allocated", "timestamp": "2024-05-01T09:00:00Z"},
			},
		},
	})

	p.login(t, models.UserRoleSuperAdmin)

	resp, body := p.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome back, Ada Admin")
	assert.Contains(t, body, "Total Users")
	assert.Contains(t, body, "1,234")
	assert.Contains(t, body, "Room 101 allocated")

	last := p.backend.Last(t)
	assert.Equal(t, "/api/dashboard/summary/", last.Path)
	assert.Equal(t, "Bearer access-token", last.Header.Get("Authorization"))

	resp, _ = p.get(t, "/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestPortal_ExpiredBackendSessionReturnsToLogin(t *testing.T) {
	p := newTestPortal(t)
	p.backend.Reply(http.MethodGet, "/dashboard/summary/", http.StatusUnauthorized, gin.H{"detail": "Token expired"})

	p.login(t, models.UserRoleMember)

	resp, _ := p.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))

	resp, _ = p.get(t, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode, "credentials were cleared")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))
}

func TestPortal_RoleGuard(t *testing.T) {
	p := newTestPortal(t)
	p.login(t, models.UserRoleMember)

	resp, _ := p.get(t, "/admin/users")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestPortal_UnknownPathGoesHome(t *testing.T) {
	p := newTestPortal(t)

	resp, _ := p.get(t, "/no/such/page")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, body := p.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<html")
}

func TestOpenDatabase_RejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "oracle"

	_, err := OpenDatabase(&cfg)
	assert.ErrorContains(t, err, "unsupported database driver")
}
