package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artists/db"
	"artists/models"
)

// User is authenticated and posseses the required role
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper class that adds role checks + User pre-loading
type Router struct {
	Base *gin.RouterGroup
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []string) {
	id := ContextUserID(c)
	if id == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	user, err := models.UserByID(db.Instance, id)
	if err != nil || !user.Active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	if len(required) > 0 {
		allowed := false
		for _, role := range required {
			if user.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
	}
	handler(c, &user)
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...string) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...string) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc, required ...string) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) PATCH(path string, handler HandlerFunc, required ...string) {
	cr.Base.PATCH(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc, required ...string) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}
