package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"artists/auth"
	"artists/config"
	"artists/httperr"
)

// Paths that must stay reachable when a user is throttled
var skipPrefixes = []string{
	"/api/v1/auth/",
	"/health",
	"/docs",
}

// Middleware throttles authenticated users. Anonymous requests pass through;
// the auth middleware already decides whether they get anywhere.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		userID := auth.ContextUserID(c)
		if userID == 0 {
			c.Next()
			return
		}

		window := time.Duration(config.RATE_LIMIT_MINUTES) * time.Minute
		allowed, remaining, retryAfter := Take(strconv.FormatUint(userID, 10), config.RATE_LIMIT_CAPACITY, window)
		if allowed {
			c.Header("X-Rate-Limit-Remaining", strconv.Itoa(remaining))
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, httperr.ApiError{
			Timestamp: time.Now(),
			Status:    http.StatusTooManyRequests,
			Erro:      "Too Many Requests",
			Mensagem:  "Limite de requisições por minuto excedido para este usuário.",
			Caminho:   path,
		})
	}
}
