package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"accommodation_portal/internal/models"
	"accommodation_portal/internal/notifications"
	"accommodation_portal/internal/reservation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var superAdmin = models.User{ID: 1, Username: "root", Email: "root@example.com", FirstName: "Grace", LastName: "Hopper", Role: models.UserRoleSuperAdmin}

func completeBooking() url.Values {
	return url.Values{
		"firstName":         {"Jane"},
		"lastName":          {"Doe"},
		"gender":            {"female"},
		"phoneNumber":       {"8012345678"},
		"countryCode":       {"+234"},
		"townCity":          {"Lagos"},
		"country":           {"Nigeria"},
		"adults":            {"2"},
		"checkIn":           {"2030-01-10"},
		"checkOut":          {"2030-01-12"},
		"nextOfKinName":     {"John Doe"},
		"nextOfKinPhone":    {"8098765432"},
		"nextOfKinTownCity": {"Abuja"},
		"nextOfKinCountry":  {"Nigeria"},
	}
}

func TestReservationWizard(t *testing.T) {
	h := newHarness(t, func(base *BaseHandler, r *gin.RouterGroup) {
		NewReservationHandler(base).RegisterRoutes(r)
	})

	resp, _ := h.get(t, reservation.RoomPath)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, reservation.BookingPath, resp.Header.Get("Location"))

	partial := completeBooking()
	partial.Del("country")
	resp, body := h.post(t, reservation.BookingPath, partial)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `value="Jane"`, "entered values are kept")

	resp, _ = h.post(t, reservation.BookingPath, completeBooking())
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, reservation.RoomPath, resp.Header.Get("Location"))

	resp, _ = h.post(t, reservation.RoomPath, url.Values{"room": {"999"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, reservation.RoomPath, resp.Header.Get("Location"))

	resp, _ = h.post(t, reservation.RoomPath, url.Values{"room": {"201"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, reservation.ConfirmationPath, resp.Header.Get("Location"))

	resp, _ = h.get(t, reservation.PaymentPath)
	assert.Equal(t, http.StatusFound, resp.StatusCode, "payment needs a confirmation")
	assert.Equal(t, reservation.ConfirmationPath, resp.Header.Get("Location"))

	resp, body = h.get(t, reservation.ConfirmationPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Executive Suite")

	resp, _ = h.post(t, reservation.ConfirmationPath, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, reservation.PaymentPath, resp.Header.Get("Location"))

	resp, _ = h.post(t, reservation.PaymentPath, url.Values{
		"cardName":   {"Jane Doe"},
		"cardNumber": {"4111 1111 1111 1111"},
		"expiry":     {"13/30"},
		"cvv":        {"123"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = h.post(t, reservation.PaymentPath, url.Values{
		"cardName":   {"Jane Doe"},
		"cardNumber": {"4111 1111 1111 1111"},
		"expiry":     {"12/30"},
		"cvv":        {"123"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body = h.get(t, reservation.PaymentPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Payment successful")
	assert.Contains(t, body, "1111")
	assert.NotContains(t, body, "4111111111111111")

	resp, _ = h.post(t, "/reservations/reset", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = h.get(t, reservation.ConfirmationPath)
	assert.Equal(t, http.StatusFound, resp.StatusCode, "reset clears the wizard")
}

func TestReservationWizard_RoomChangeDropsConfirmation(t *testing.T) {
	h := newHarness(t, func(base *BaseHandler, r *gin.RouterGroup) {
		NewReservationHandler(base).RegisterRoutes(r)
	})

	h.post(t, reservation.BookingPath, completeBooking())
	h.post(t, reservation.RoomPath, url.Values{"room": {"101"}})
	h.post(t, reservation.ConfirmationPath, nil)

	resp, _ := h.get(t, reservation.PaymentPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	h.post(t, reservation.RoomPath, url.Values{"room": {"301"}})
	resp, _ = h.get(t, reservation.PaymentPath)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, reservation.ConfirmationPath, resp.Header.Get("Location"))
}

func TestReservationWizard_NewRoomIsPaidAgain(t *testing.T) {
	h := newHarness(t, func(base *BaseHandler, r *gin.RouterGroup) {
		NewReservationHandler(base).RegisterRoutes(r)
	})
	card := url.Values{
		"cardName":   {"Jane Doe"},
		"cardNumber": {"4111 1111 1111 1111"},
		"expiry":     {"12/30"},
		"cvv":        {"123"},
	}

	h.post(t, reservation.BookingPath, completeBooking())
	h.post(t, reservation.RoomPath, url.Values{"room": {"101"}})
	h.post(t, reservation.ConfirmationPath, nil)
	resp, _ := h.post(t, reservation.PaymentPath, card)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body := h.get(t, reservation.PaymentPath)
	require.Contains(t, body, "We charged ₦12,600")

	h.post(t, reservation.RoomPath, url.Values{"room": {"301"}})
	resp, _ = h.post(t, reservation.ConfirmationPath, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body = h.get(t, reservation.PaymentPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "We charged", "the earlier payment no longer applies")
	assert.Contains(t, body, "Pay ₦52,500")

	resp, _ = h.post(t, reservation.PaymentPath, card)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = h.get(t, reservation.PaymentPath)
	assert.Contains(t, body, "Payment successful")
	assert.NotContains(t, body, "already paid")
	assert.Contains(t, body, "We charged ₦52,500")
}

func TestBuildingBulkRooms(t *testing.T) {
	h := newHarness(t, func(base *BaseHandler, r *gin.RouterGroup) {
		NewBuildingHandler(base).RegisterRoutes(r)
	})
	h.signIn(t, superAdmin)
	h.backend.Reply(http.MethodPost, "/buildings/5/rooms/bulk/", http.StatusCreated, []gin.H{
		{"id": 11, "room_number": "101", "capacity": 2},
		{"id": 12, "room_number": "102", "capacity": 1},
	})

	resp, _ := h.post(t, "/admin/buildings/5/rooms/bulk", url.Values{"rooms": {"101, 2\n102"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/buildings/5", resp.Header.Get("Location"))

	last := h.backend.Last(t)
	assert.Equal(t, "/api/buildings/5/rooms/bulk/", last.Path)
	assert.Equal(t, "Bearer access-token", last.Header.Get("Authorization"))
	rooms, ok := last.JSON(t)["rooms"].([]any)
	require.True(t, ok)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].(map[string]any)["room_number"])
	assert.EqualValues(t, 1, rooms[1].(map[string]any)["capacity"])

	feed, err := h.notifications.List(context.Background(), superAdmin.ID, notifications.Filter{})
	require.NoError(t, err)
	var titles []string
	for _, n := range feed.Items {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Rooms created")
}

func TestUserDelete_RefusesOwnAccount(t *testing.T) {
	h := newHarness(t, func(base *BaseHandler, r *gin.RouterGroup) {
		NewUserHandler(base).RegisterRoutes(r)
	})
	h.signIn(t, superAdmin)

	resp, _ := h.post(t, "/admin/users/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/users", resp.Header.Get("Location"))
	assert.Empty(t, h.backend.Requests(), "the backend is never asked")
}

func TestUserHandler_MemberIsTurnedAway(t *testing.T) {
	h := newHarness(t, func(base *BaseHandler, r *gin.RouterGroup) {
		NewUserHandler(base).RegisterRoutes(r)
	})
	h.signIn(t, models.User{ID: 2, Username: "m", Role: models.UserRoleMember})

	resp, _ := h.get(t, "/admin/users")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestNotifications_MarkAllRead(t *testing.T) {
	h := newHarness(t, func(base *BaseHandler, r *gin.RouterGroup) {
		NewNotificationHandler(base).RegisterRoutes(r)
	})
	h.signIn(t, superAdmin)
	ctx := context.Background()

	resp, _ := h.get(t, "/admin/notifications")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	unread, err := h.notifications.UnreadCount(ctx, superAdmin.ID)
	require.NoError(t, err)
	require.Positive(t, unread, "a new feed is seeded")

	resp, _ = h.post(t, "/admin/notifications/read-all", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	unread, err = h.notifications.UnreadCount(ctx, superAdmin.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
