package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxPapel  = "papel"
)

// Middleware authenticates the request from the Authorization header, or from
// a "token" query parameter for websocket clients that cannot set headers.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
				return
			}
		} else {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
			return
		}
		claims, err := ParseAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxPapel, claims.Papel)
		c.Next()
	}
}

// ContextUserID returns the authenticated user id, or 0 when the request is
// unauthenticated (public paths).
func ContextUserID(c *gin.Context) uint64 {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}

func ContextRole(c *gin.Context) string {
	return c.GetString(ctxPapel)
}
