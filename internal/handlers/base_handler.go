package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/middleware"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/notifications"
	"accommodation_portal/internal/services"
	"accommodation_portal/internal/session"
	"accommodation_portal/internal/validator"
	"accommodation_portal/internal/web"
	"accommodation_portal/internal/web/flash"
	"accommodation_portal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// headerNotifications is how many notices the header dropdown lists.
const headerNotifications = 5

// nonFieldErrors is the backend's key for errors that belong to no single field.
const nonFieldErrors = "non_field_errors"

type BaseHandler struct {
	validator     *validator.Validator
	notifications *notifications.Service
}

func NewBaseHandler(v *validator.Validator, notifier *notifications.Service) *BaseHandler {
	return &BaseHandler{
		validator:     v,
		notifications: notifier,
	}
}

// Services returns the backend services bound to this request's session.
// SessionMiddleware must run first.
func (h *BaseHandler) Services(c *gin.Context) *services.Registry {
	registry, ok := middleware.Services(c)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: services not bound to request", "path", c.Request.URL.Path)
		panic("critical error: SessionMiddleware did not bind services")
	}
	return registry
}

func (h *BaseHandler) Session(c *gin.Context) *session.Session {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: session not bound to request", "path", c.Request.URL.Path)
		panic("critical error: SessionMiddleware did not bind a session")
	}
	return sess
}

func (h *BaseHandler) CurrentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

// NewPage builds the page chrome for the current user, consuming any pending flash.
func (h *BaseHandler) NewPage(c *gin.Context, title string) *web.Page {
	user := h.CurrentUser(c)
	page := web.NewPage(title, c.Request.URL.Path, user)

	if notice, ok := flash.ReadAndClear(c.Writer, c.Request); ok {
		page.Flash = &notice
	}

	if user != nil && h.notifications != nil {
		ctx := c.Request.Context()
		if count, err := h.notifications.UnreadCount(ctx, user.ID); err == nil {
			page.UnreadCount = count
		} else {
			logger.CtxWithError(ctx, "failed to count unread notifications", err)
		}
		if recent, err := h.notifications.Recent(ctx, user.ID, headerNotifications); err == nil {
			page.Notifications = recent
		} else {
			logger.CtxWithError(ctx, "failed to load recent notifications", err)
		}
	}
	return page
}

// Render writes the page, unless a backend call asked for a navigation (an
// expired login), in which case the browser is redirected there instead.
func (h *BaseHandler) Render(c *gin.Context, status int, name string, page *web.Page) {
	if h.followNavigation(c) {
		return
	}
	c.HTML(status, name, page)
}

// Redirect stores notice for the next page and sends the browser to path.
func (h *BaseHandler) Redirect(c *gin.Context, path string, notice flash.Notice) {
	if h.followNavigation(c) {
		return
	}
	flash.Write(c.Writer, c.Request, notice)
	c.Redirect(http.StatusSeeOther, path)
}

func (h *BaseHandler) followNavigation(c *gin.Context) bool {
	nav, ok := middleware.Navigator(c)
	if !ok {
		return false
	}
	target := nav.Target()
	if target == "" {
		return false
	}
	flash.Write(c.Writer, c.Request, flash.Warning(apperrors.ErrSessionExpired.Message))
	c.Redirect(http.StatusSeeOther, target)
	return true
}

// BindAndValidate_Form binds the posted form into obj and validates it. The
// returned map holds one message per failing field, keyed by form name.
func (h *BaseHandler) BindAndValidate_Form(c *gin.Context, obj interface{}) (map[string]string, bool) {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWarn(ctx, "Failed to bind form", "error", err.Error(), "path", c.Request.URL.Path)
		return map[string]string{nonFieldErrors: "Some values could not be read. Please check the form."}, false
	}

	if err := h.validator.Validate(obj); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			logger.CtxDebug(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			return vErr.Errors, false
		}
		logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
		return map[string]string{nonFieldErrors: "Internal validation error"}, false
	}
	return nil, true
}

// HandleServiceError renders the error page (or JSON) for a portal-side failure.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	appErr, ok := apperrors.AsAppError(err)
	if ok {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		appErr = apperrors.InternalError(err)
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		apperrors.HandleError(c, appErr)
		return
	}
	page := h.NewPage(c, "Error")
	page.Error = appErr
	if appErr.HTTPCode >= http.StatusInternalServerError && gin.Mode() == gin.ReleaseMode {
		page.Error = appErr.WithDetails(nil)
	}
	c.HTML(appErr.HTTPCode, apperrors.ErrorTemplate, page)
	c.Abort()
}

// notify adds a notice to the current user's feed. Failures are only logged.
func (h *BaseHandler) notify(c *gin.Context, kind models.NotificationType, title, message, actionURL string) {
	user := h.CurrentUser(c)
	if user == nil || h.notifications == nil {
		return
	}
	meta := models.NotificationMeta{Priority: "medium", ActionURL: actionURL, Sender: "Accommodation Portal"}
	if err := h.notifications.Notify(c.Request.Context(), user.ID, kind, title, message, meta); err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to record notification", err, "title", title)
	}
}

// resultNotice turns the outcome of a backend mutation into a flash notice.
func resultNotice[T any](result services.Result[T], fallback string) flash.Notice {
	if result.Success {
		if result.Message != "" {
			return flash.Success(result.Message)
		}
		return flash.Success(fallback)
	}
	return flash.Error(result.Error)
}

// FieldErrors flattens the backend's {"field": ["msg", ...]} errors into one
// message per field for inline display.
func FieldErrors(errs map[string]any) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for field, raw := range errs {
		switch v := raw.(type) {
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			out[field] = strings.Join(parts, " ")
		case []string:
			out[field] = strings.Join(v, " ")
		default:
			out[field] = fmt.Sprint(v)
		}
	}
	return out
}

// failureErrors merges a failed result's field errors with its summary message,
// so a form always shows why it was rejected.
func failureErrors[T any](result services.Result[T]) map[string]string {
	errs := FieldErrors(result.Errors)
	if errs == nil {
		errs = make(map[string]string)
	}
	if len(errs) == 0 || result.Status != http.StatusBadRequest {
		errs[nonFieldErrors] = result.Error
	}
	return errs
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParseParamID reads a positive integer path parameter.
func ParseParamID(c *gin.Context, key string) (int64, error) {
	value, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || value <= 0 {
		return 0, apperrors.ErrInvalidIdentifier.WithDetails(map[string]string{"param": key})
	}
	return value, nil
}

func ParsePagination(c *gin.Context) (page int, pageSize int) {
	const defaultPage = 1
	const defaultPageSize = 20
	const maxPageSize = 100

	page = ParseQueryInt(c, "page", defaultPage)
	if page <= 0 {
		page = defaultPage
	}

	pageSize = ParseQueryInt(c, "page_size", defaultPageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}

// ParseIDs reads every positive integer posted under field, sorted and de-duplicated.
func ParseIDs(c *gin.Context, field string) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, raw := range c.PostFormArray(field) {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func missingSelection(what string) flash.Notice {
	return flash.Warning("Select at least one " + what)
}

// nilIfZero drops ids bound from empty form inputs, which gin sets to 0.
func nilIfZero(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	return id
}
