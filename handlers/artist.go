package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"artists/db"
	"artists/httperr"
	"artists/models"
	"artists/notifications"
)

type ArtistaDto struct {
	ID     uint64 `json:"id"`
	Nome   string `json:"nome" binding:"required"`
	Genero string `json:"genero"`
}

var artistSortable = map[string]string{
	"id":       "id",
	"nome":     "name",
	"genero":   "genre",
	"criadoEm": "created_at",
}

func toArtistaDto(a models.Artist) ArtistaDto {
	return ArtistaDto{ID: a.ID, Nome: a.Name, Genero: a.Genre}
}

func ArtistCreate(c *gin.Context, user *models.User) {
	var dto ArtistaDto
	if err := bindJSON(c, &dto); err != nil {
		httperr.Respond(c, err)
		return
	}
	artist := models.Artist{Name: dto.Nome, Genre: dto.Genero}
	if err := db.Instance.Create(&artist).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, toArtistaDto(artist))
}

func ArtistList(c *gin.Context, user *models.User) {
	page, err := ParsePageRequest(c, artistSortable, "id asc")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	query := db.Instance.Model(&models.Artist{})
	if pesquisa := c.Query("pesquisa"); pesquisa != "" {
		query = query.Where("name LIKE ?", "%"+pesquisa+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	artists := []models.Artist{}
	err = query.Order(page.Order).Offset(page.Offset()).Limit(page.Size).Find(&artists).Error
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	content := make([]ArtistaDto, 0, len(artists))
	for _, a := range artists {
		content = append(content, toArtistaDto(a))
	}
	c.JSON(http.StatusOK, NewPage(content, page.Page, page.Size, total))
}

func ArtistGet(c *gin.Context, user *models.User) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	artist, err := artistByID(id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toArtistaDto(artist))
}

func ArtistUpdate(c *gin.Context, user *models.User) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	var dto ArtistaDto
	if err := bindJSON(c, &dto); err != nil {
		httperr.Respond(c, err)
		return
	}
	artist, err := artistByID(id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	artist.Name = dto.Nome
	artist.Genre = dto.Genero
	if err := db.Instance.Save(&artist).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toArtistaDto(artist))
}

func ArtistDelete(c *gin.Context, user *models.User) {
	id, err := paramID(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		artist, err := artistByIDTx(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&artist).Association("Albums").Clear(); err != nil {
			return err
		}
		return tx.Delete(&artist).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func artistByID(id uint64) (models.Artist, error) {
	return artistByIDTx(db.Instance, id)
}

func artistByIDTx(tx *gorm.DB, id uint64) (models.Artist, error) {
	var artist models.Artist
	if err := tx.First(&artist, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return artist, httperr.NotFound("Artista não encontrado: %d", id)
		}
		return artist, err
	}
	return artist, nil
}
