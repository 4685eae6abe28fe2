package session

import (
	"net/http"
	"strings"
	"time"
)

const DefaultCookieName = "portal_session"

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func (o CookieOptions) name() string {
	if o.Name == "" {
		return DefaultCookieName
	}
	return o.Name
}

// ReadCookie returns the trimmed session id when the cookie is present.
func ReadCookie(r *http.Request, opts CookieOptions) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(opts.name())
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

func WriteCookie(w http.ResponseWriter, sessionID string, opts CookieOptions) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     opts.name(),
		Value:    strings.TrimSpace(sessionID),
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     opts.name(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
