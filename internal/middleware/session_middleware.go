package middleware

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/auth"
	"github.com/yigit/interviewportal/internal/session"
)

// Context keys set by the session middleware
const (
	ContextKeyUser  = "sessionUser"
	ContextKeyToken = "sessionToken"
)

// Paths the gate redirects to
const (
	LoginPath     = "/"
	DashboardPath = "/dashboard"
)

// MsgAccessDenied is flashed when a role may not open a page
const MsgAccessDenied = "You don't have access to that page"

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionMiddleware gates pages on the signed session cookie
type SessionMiddleware struct {
	sessions *session.Manager
	cookie   CookieConfig
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(sessions *session.Manager, cookie CookieConfig) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		cookie:   cookie,
	}
}

// SetCookie stores an issued session token on the response
func (m *SessionMiddleware) SetCookie(c *gin.Context, token auth.IssuedToken) {
	maxAge := int(time.Until(token.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token.Value, maxAge, "/", "", m.cookie.Secure, true)
}

// ClearCookie expires the session cookie
func (m *SessionMiddleware) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

// Token returns the raw session cookie, if any
func (m *SessionMiddleware) Token(c *gin.Context) string {
	token, err := c.Cookie(m.cookie.Name)
	if err != nil {
		return ""
	}
	return token
}

// Resolve returns the session user of the request without gating it
func (m *SessionMiddleware) Resolve(c *gin.Context) (models.SessionUser, bool) {
	token := m.Token(c)
	if token == "" {
		return models.SessionUser{}, false
	}
	user, err := m.sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		return models.SessionUser{}, false
	}
	return user, true
}

// SessionRequired redirects to the login page unless the cookie resolves to a live session.
// Nothing of the protected page is rendered for an anonymous request.
func (m *SessionMiddleware) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.Token(c)
		user, ok := m.Resolve(c)
		if !ok {
			if token != "" {
				m.ClearCookie(c)
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// APISessionRequired is SessionRequired for JSON endpoints: it answers 401 instead of redirecting
func (m *SessionMiddleware) APISessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.Resolve(c)
		if !ok {
			HandleAPIError(c, apperrors.ErrUnauthenticated)
			c.Abort()
			return
		}
		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyToken, m.Token(c))
		c.Next()
	}
}

// RoleRequired lets the request through only for the given roles.
// Others are sent back to the dashboard with an error flash.
func (m *SessionMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, DashboardPath+"?error="+url.QueryEscape(MsgAccessDenied))
		c.Abort()
	}
}

// CurrentUser returns the session user stored by SessionRequired
func CurrentUser(c *gin.Context) (models.SessionUser, bool) {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return models.SessionUser{}, false
	}
	user, ok := value.(models.SessionUser)
	return user, ok
}

// CurrentToken returns the raw session token stored by SessionRequired
func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}
