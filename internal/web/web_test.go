package web

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"accommodation_portal/internal/models"
	"accommodation_portal/internal/navigation"
	"accommodation_portal/internal/notifications"
	"accommodation_portal/internal/reservation"
	"accommodation_portal/internal/web/flash"
	"accommodation_portal/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *TemplateManager {
	t.Helper()
	tm, err := NewTemplateManager()
	require.NoError(t, err)
	return tm
}

func renderPage(t *testing.T, tm *TemplateManager, name string, data any) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, tm.Render(&b, name, data))
	return b.String()
}

func TestTemplateManagerLoadsEveryPage(t *testing.T) {
	tm := newManager(t)
	names := tm.Names()
	for _, want := range []string{"login.html", "dashboard.html", "error.html", "reservation_payment.html", "notifications.html"} {
		assert.Contains(t, names, want)
	}

	err := tm.Render(&strings.Builder{}, "missing.html", nil)
	assert.Error(t, err)
}

func TestRenderLoginWithInlineErrors(t *testing.T) {
	tm := newManager(t)
	page := NewPage("Sign in", "/auth/login", nil)
	page.Form = models.LoginRequest{Email: "ann@example.com"}
	page.Errors = map[string]string{"password": "This field is required"}
	page.Flash = &flash.Notice{Kind: flash.KindError, Message: "Invalid credentials."}

	out := renderPage(t, tm, "login", page)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<!DOCTYPE html>"))
	assert.Contains(t, out, "</html>")
	assert.Contains(t, out, "Sign in")
	assert.Contains(t, out, `value="ann@example.com"`)
	assert.Contains(t, out, "This field is required")
	assert.Contains(t, out, "alert-error")
	assert.NotContains(t, out, `<nav class="sidebar">`)
}

func TestInstanceWritesWholeDocument(t *testing.T) {
	tm := newManager(t)
	w := httptest.NewRecorder()

	err := tm.Instance("login.html", NewPage("Sign in", "/auth/login", nil)).Render(w)
	require.NoError(t, err)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<html")
	assert.Contains(t, w.Body.String(), `action="/auth/login"`)
}

func TestRenderDashboardChrome(t *testing.T) {
	tm := newManager(t)
	user := &models.User{ID: 7, FirstName: "Grace", LastName: "Obi", Role: models.UserRoleMember}
	page := NewPage("Dashboard", "/dashboard", user)
	page.UnreadCount = 2
	page.Notifications = []models.Notification{{Title: "Room ready", BaseModel: models.BaseModel{CreatedAt: time.Now()}}}
	page.With("Layout", navigation.Widgets(user.Role)).
		With("Stats", models.DashboardStats{"my_requests": float64(3)}).
		With("Activities", []models.Activity{{Description: "Request submitted", Timestamp: "2024-03-01T10:00:00Z"}}).
		With("Allocations", []models.Allocation{})

	out := renderPage(t, tm, "dashboard.html", page)
	assert.Contains(t, out, "Welcome back, Grace Obi")
	assert.Contains(t, out, `href="/member/requests"`)
	assert.Contains(t, out, "Room ready")
	assert.Contains(t, out, "Request submitted")
	assert.Contains(t, out, "Mar 1, 2024 10:00")
}

func TestRenderErrorPageFromGinH(t *testing.T) {
	tm := newManager(t)
	out := renderPage(t, tm, apperrors.ErrorTemplate, gin.H{
		"Title": "Error",
		"Error": apperrors.ErrPageNotFound,
	})
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "does not exist")
}

func TestRenderNotificationsAndPayment(t *testing.T) {
	tm := newManager(t)
	user := &models.User{ID: 1, Username: "admin", Role: models.UserRoleSuperAdmin}

	page := NewPage("Notifications", "/admin/notifications", user)
	page.With("Feed", &notifications.Feed{
		Items:       []models.Notification{{Title: "Payment received", Type: models.NotificationTypePayment}},
		Total:       1,
		UnreadCount: 1,
		Filter:      notifications.Filter{Status: "all"},
	}).With("Filters", []string{"all", "unread", "read"})
	out := renderPage(t, tm, "notifications.html", page)
	assert.Contains(t, out, "Payment received")
	assert.Contains(t, out, "1 notifications, 1 unread")

	room, ok := reservation.FindRoom("101")
	require.True(t, ok)
	page = NewPage("Payment", reservation.PaymentPath, nil)
	page.Form = reservation.CardInput{}
	page.With("Steps", reservation.Steps(reservation.StagePayment)).
		With("Room", room).
		With("Quote", reservation.Quote{Nights: 2, NightlyRate: 6000, Subtotal: 12000, VAT: 600, Total: 12600})
	out = renderPage(t, tm, "reservation_payment.html", page)
	assert.Contains(t, out, "₦12,600")
}

func TestNewPager(t *testing.T) {
	u, _ := url.Parse("/admin/buildings?search=Block+A&page=2")

	p := NewPager(u, 2, true, true)
	require.NotNil(t, p)
	assert.Equal(t, "/admin/buildings?page=1&search=Block+A", p.Previous)
	assert.Equal(t, "/admin/buildings?page=3&search=Block+A", p.Next)

	assert.Nil(t, NewPager(u, 1, false, false))
}

func TestFuncs(t *testing.T) {
	assert.Equal(t, "Jan 2, 2024", formatDate("2024-01-02"))
	assert.Equal(t, "N/A", formatDate(""))
	assert.Equal(t, "soon", formatDate("soon"))
	assert.Equal(t, "Total rooms", humanize("total_rooms"))
	assert.Equal(t, "₦1,234,567", naira(1234567))
	assert.Equal(t, "₦600", naira(600))
	assert.Equal(t, "GO", initials(&models.User{FirstName: "grace", LastName: "obi"}))
	assert.Equal(t, "badge-warning", statusClass("Pending"))
}
