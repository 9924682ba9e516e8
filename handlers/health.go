package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artists/db"
	"artists/storage"
)

func Health(c *gin.Context) {
	sqlDB, err := db.Instance.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": err.Error()})
		return
	}
	if err := storage.Instance.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "storage": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
