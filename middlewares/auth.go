package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eventmanagement/utils"
)

const (
	// SessionCookie is the cookie login sets and logout clears.
	SessionCookie = "token"

	CtxUserID = "userId"
	CtxEmail  = "email"
)

// Authenticate verifies the session token from the cookie, or from the
// Authorization header when no cookie is sent, and puts the caller's id and
// email on the context.
func Authenticate(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessionToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized, no token"})
			return
		}

		claims, err := tokens.VerifyToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized, invalid token"})
			return
		}

		c.Set(CtxUserID, claims.ID)
		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}
