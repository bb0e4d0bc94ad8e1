package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "admin_session"
	CtxSession = "admin_session"
)

// Require protects the JSON admin API. It accepts a Bearer token or the
// session cookie and stores the Session in the gin context.
func Require(g *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := g.Verify(c.Request.Context(), extractToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
			return
		}
		c.Set(CtxSession, s)
		c.Next()
	}
}

// RequireHTML protects admin pages, redirecting to loginPath without a valid session.
func RequireHTML(g *Gate, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := g.Verify(c.Request.Context(), extractToken(c))
		if err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Set(CtxSession, s)
		c.Next()
	}
}

// FromContext returns the session stored by Require or RequireHTML.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok
}

// Current verifies the request's credentials without aborting.
func Current(g *Gate, c *gin.Context) (*Session, bool) {
	s, err := g.Verify(c.Request.Context(), extractToken(c))
	return s, err == nil
}

func SetCookie(c *gin.Context, s *Session, secure bool) {
	maxAge := int(s.ExpiresAt.Sub(s.IssuedAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, s.Token, maxAge, "/", "", secure, true)
}

func ClearCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	if token, err := c.Cookie(CookieName); err == nil {
		return token
	}
	return ""
}
