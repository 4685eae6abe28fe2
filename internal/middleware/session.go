package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"accommodation_portal/internal/apiclient"
	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/services"
	"accommodation_portal/internal/session"
	"accommodation_portal/pkg/apperrors"
	"accommodation_portal/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// RequestNavigator records where the API client asked the browser to go. The
// reports page calls the backend from several goroutines, hence the lock.
type RequestNavigator struct {
	mu     sync.Mutex
	target string
}

func (n *RequestNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.target == "" {
		n.target = path
	}
}

// Target is the first requested destination, "" when none.
func (n *RequestNavigator) Target() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target
}

// SessionMiddleware loads the browser's session (issuing a cookie for new ones)
// and binds the shared API client and services to it for this request.
func SessionMiddleware(store *session.Store, client *apiclient.Client, cookie session.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, _ := session.ReadCookie(c.Request, cookie)
		sess, created, err := store.LoadOrCreate(ctx, id)
		if err != nil {
			logger.CtxWithError(ctx, "failed to load session", err)
			apperrors.HandleError(c, err)
			return
		}
		if created || id != sess.ID() {
			session.WriteCookie(c.Writer, sess.ID(), cookie)
		}

		ctx = logger.WithSessionID(ctx, sess.ID())
		navigator := &RequestNavigator{}
		registry := services.NewRegistry(client.Bind(sess, navigator))

		if user, ok := services.StoredUser(sess); ok {
			ctx = logger.WithUserID(ctx, strconv.FormatInt(user.ID, 10))
			c.Set(contextkeys.StoredUserKey, user)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(contextkeys.SessionKey), sess)
		c.Set(string(contextkeys.NavigatorKey), navigator)
		c.Set(string(contextkeys.ServicesKey), registry)
		c.Set(string(contextkeys.SessionEndKey), func() error {
			session.ClearCookie(c.Writer, cookie)
			return store.Destroy(ctx, sess.ID())
		})

		c.Next()

		if err := sess.Err(); err != nil {
			logger.CtxWithError(ctx, "session storage failed during request", err)
		}
	}
}

// NavigationMiddleware turns a navigation requested by the API client into a
// redirect when the handler wrote nothing itself.
func NavigationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		navigator, ok := Navigator(c)
		if !ok || c.Writer.Written() {
			return
		}
		if target := navigator.Target(); target != "" {
			c.Redirect(http.StatusSeeOther, target)
		}
	}
}

func CurrentSession(c *gin.Context) (*session.Session, bool) {
	val, ok := c.Get(string(contextkeys.SessionKey))
	if !ok {
		return nil, false
	}
	sess, ok := val.(*session.Session)
	return sess, ok
}

// EndSession deletes the browser's session and expires its cookie. The next
// request starts a fresh session.
func EndSession(c *gin.Context) error {
	val, ok := c.Get(string(contextkeys.SessionEndKey))
	if !ok {
		return apperrors.ErrSessionMissing
	}
	end, ok := val.(func() error)
	if !ok {
		return apperrors.ErrSessionMissing
	}
	return end()
}

func Navigator(c *gin.Context) (*RequestNavigator, bool) {
	val, ok := c.Get(string(contextkeys.NavigatorKey))
	if !ok {
		return nil, false
	}
	nav, ok := val.(*RequestNavigator)
	return nav, ok
}

func Services(c *gin.Context) (*services.Registry, bool) {
	val, ok := c.Get(string(contextkeys.ServicesKey))
	if !ok {
		return nil, false
	}
	registry, ok := val.(*services.Registry)
	return registry, ok
}

// CurrentUser returns the user stored at login, nil for anonymous visitors.
func CurrentUser(c *gin.Context) *models.User {
	val, ok := c.Get(contextkeys.StoredUserKey)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}
