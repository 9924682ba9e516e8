package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artists/db"
	"artists/httperr"
	"artists/models"
	"artists/regionals"
)

type RegionalDto struct {
	ID        uint64 `json:"id"`
	IDExterno int    `json:"idExterno"`
	Nome      string `json:"nome"`
}

func RegionalList(c *gin.Context, user *models.User) {
	active, err := regionals.ListActive(db.Instance)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	result := make([]RegionalDto, 0, len(active))
	for _, r := range active {
		result = append(result, RegionalDto{ID: r.ID, IDExterno: r.ExternalID, Nome: r.Name})
	}
	c.JSON(http.StatusOK, result)
}

func RegionalSync(c *gin.Context, user *models.User) {
	result, err := regionals.Sync()
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
