package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/notifications"
	"accommodation_portal/internal/web/flash"
	"accommodation_portal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const notificationsPath = "/admin/notifications"

var notificationFilters = []string{
	notifications.FilterAll,
	notifications.FilterUnread,
	notifications.FilterRead,
	"booking",
	"allocation",
	"payment",
	"system",
	"user",
}

// NotificationHandler serves the signed-in user's notification feed.
type NotificationHandler struct {
	*BaseHandler
}

func NewNotificationHandler(base *BaseHandler) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group(notificationsPath, middleware.RequireAuth())
	{
		g.GET("", h.List)
		g.POST("/read-all", h.MarkAllAsRead)
		g.POST("/bulk", h.Bulk)
		g.POST("/:id/read", h.MarkAsRead)
		g.POST("/:id/delete", h.Delete)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	var filter notifications.Filter
	_ = c.ShouldBindQuery(&filter)
	if filter.Status == "" {
		filter.Status = notifications.FilterAll
	}

	feed, err := h.notifications.List(c.Request.Context(), h.CurrentUser(c).ID, filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	page := h.NewPage(c, "Notifications")
	page.With("Feed", feed).With("Filters", notificationFilters)
	h.Render(c, http.StatusOK, "notifications.html", page)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	err := h.notifications.MarkAsRead(c.Request.Context(), h.CurrentUser(c).ID, c.Param("id"))
	h.Redirect(c, notificationsPath, notificationNotice(err, "Notification marked as read"))
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	n, err := h.notifications.MarkAllAsRead(c.Request.Context(), h.CurrentUser(c).ID)
	h.Redirect(c, notificationsPath, notificationNotice(err, fmt.Sprintf("%d notifications marked as read", n)))
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	err := h.notifications.Delete(c.Request.Context(), h.CurrentUser(c).ID, c.Param("id"))
	h.Redirect(c, notificationsPath, notificationNotice(err, "Notification deleted"))
}

func (h *NotificationHandler) Bulk(c *gin.Context) {
	ids := c.PostFormArray("ids")
	if len(ids) == 0 {
		h.Redirect(c, notificationsPath, missingSelection("notification"))
		return
	}
	ctx := c.Request.Context()
	userID := h.CurrentUser(c).ID

	switch c.PostForm("action") {
	case "read":
		n, err := h.notifications.MarkManyAsRead(ctx, userID, ids)
		h.Redirect(c, notificationsPath, notificationNotice(err, fmt.Sprintf("%d notifications marked as read", n)))
	case "delete":
		n, err := h.notifications.DeleteMany(ctx, userID, ids)
		h.Redirect(c, notificationsPath, notificationNotice(err, fmt.Sprintf("%d notifications deleted", n)))
	default:
		h.Redirect(c, notificationsPath, flash.Error("Unknown action"))
	}
}

func notificationNotice(err error, success string) flash.Notice {
	if err == nil {
		return flash.Success(success)
	}
	if errors.Is(err, apperrors.ErrNotificationNotFound) {
		return flash.Warning(apperrors.ErrNotificationNotFound.Message)
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return flash.Error(appErr.Message)
	}
	return flash.Error("Could not update notifications")
}
