package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumehub/internal/auth"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

const sessionTokenKey = "sessionToken"

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// SessionMiddleware resolves the session cookie against the store and
// injects the user id into the context. Anonymous requests never reach the
// handler.
func SessionMiddleware(sessions auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrSessionNotFound) {
				abortUnauthorized(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set("userID", userID)
		c.Set(sessionTokenKey, token)
		c.Next()
	}
}

// SessionTokenFromContext returns the raw token the request authenticated
// with, for handlers that need to revoke it.
func SessionTokenFromContext(c *gin.Context) (string, bool) {
	value, ok := c.Get(sessionTokenKey)
	if !ok {
		return "", false
	}
	token, ok := value.(string)
	return token, ok && token != ""
}
