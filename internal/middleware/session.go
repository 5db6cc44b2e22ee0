package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
)

const (
	SessionName   = "kindtrail_session"
	sessionMaxAge = 86400 * 30
)

// NewSessionStore returns the signed cookie store. The Secure flag is set
// only when the site is served over https, otherwise browsers drop the
// cookie on plain http.
func NewSessionStore(secret, siteURL string) cookie.Store {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   strings.HasPrefix(siteURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
