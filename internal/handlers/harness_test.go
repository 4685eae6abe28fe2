package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/notifications"
	"accommodation_portal/internal/repositories"
	"accommodation_portal/internal/session"
	"accommodation_portal/internal/testutil"
	"accommodation_portal/internal/validator"
	"accommodation_portal/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// harness serves the portal handlers against a fake backend.
type harness struct {
	backend       *testutil.FakeBackend
	store         *session.Store
	notifications *notifications.Service
	server        *httptest.Server
	client        *http.Client
}

func newHarness(t *testing.T, register func(base *BaseHandler, r *gin.RouterGroup)) *harness {
	t.Helper()

	backend := testutil.NewFakeBackend(t)
	db := testutil.NewTestDB(t, &models.Session{}, &models.SessionItem{}, &models.Notification{}, &models.NotificationSeed{})
	store := session.NewStore(db, repositories.NewSessionRepository(), time.Hour)
	notifier := notifications.NewService(db, repositories.NewNotificationRepository())
	client := apiclient.New(apiclient.Options{BaseURL: backend.BaseURL()})

	templates, err := web.NewTemplateManager()
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = templates
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.SessionMiddleware(store, client, session.CookieOptions{}))
	engine.Use(middleware.NavigationMiddleware())
	register(NewBaseHandler(validator.New(), notifier), engine.Group("/"))

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{
		backend:       backend,
		store:         store,
		notifications: notifier,
		server:        server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// signIn stores credentials for user in a fresh session and hands its cookie to the client.
func (h *harness) signIn(t *testing.T, user models.User) {
	t.Helper()
	sess, err := h.store.Create(context.Background())
	require.NoError(t, err)

	raw, err := json.Marshal(user)
	require.NoError(t, err)
	sess.SetItem(apiclient.TokenKey, "access-token")
	sess.SetItem(apiclient.UserKey, string(raw))
	require.NoError(t, sess.Err())

	u, err := url.Parse(h.server.URL)
	require.NoError(t, err)
	h.client.Jar.SetCookies(u, []*http.Cookie{{Name: session.DefaultCookieName, Value: sess.ID(), Path: "/"}})
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.Get(h.server.URL + path)
	require.NoError(t, err)
	return resp, drain(t, resp)
}

func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := h.client.PostForm(h.server.URL+path, form)
	require.NoError(t, err)
	return resp, drain(t, resp)
}

func drain(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
