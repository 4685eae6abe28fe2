package middleware

import (
	"net/http"
	"net/url"
	"strconv"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/navigation"
	"accommodation_portal/internal/reservation"
	"accommodation_portal/internal/web/flash"
	"accommodation_portal/pkg/apperrors"
	"accommodation_portal/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// LoginPath is where unauthenticated visitors are sent. It forwards to the
// login form and keeps the from parameter.
const LoginPath = "/login"

// RequireAuth admits requests whose session holds a usable token and a stored
// user, refreshing an expired access token first.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		registry, ok := Services(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrSessionMissing)
			return
		}

		user, hasUser := registry.Auth.GetStoredUser()
		if !hasUser || !registry.Auth.EnsureFreshToken(ctx) {
			logger.CtxDebug(ctx, "unauthenticated request redirected", "path", c.Request.URL.Path)
			c.Redirect(http.StatusFound, LoginPath+"?from="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(contextkeys.StoredUserKey, user)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, strconv.FormatInt(user.ID, 10)))
		c.Next()
	}
}

// RequireRoles sends users whose role is not listed back to the home page.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !navigation.HasRequiredRole(user, roles...) {
			logger.CtxWarn(c.Request.Context(), "role not allowed",
				"path", c.Request.URL.Path,
				"required", roles,
			)
			flash.Write(c.Writer, c.Request, flash.Error(apperrors.ErrInsufficientPermissions.Message))
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ReservationStage keeps visitors from skipping ahead in the booking wizard.
func ReservationStage(stage reservation.Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrSessionMissing)
			return
		}
		if redirect, ok := reservation.Guard(sess, stage); !ok {
			c.Redirect(http.StatusFound, redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}

// HasStoredUser is the anonymous-only counterpart of RequireAuth, used by the
// login and signup pages.
func HasStoredUser(c *gin.Context) bool {
	registry, ok := Services(c)
	if !ok {
		return false
	}
	return registry.Auth.IsAuthenticated()
}
