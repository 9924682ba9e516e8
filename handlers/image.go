package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"artists/config"
	"artists/db"
	"artists/httperr"
	"artists/models"
	"artists/notifications"
	"artists/storage"
)

type ImagemAlbumDto struct {
	ID           uint64 `json:"id"`
	ChaveObjeto  string `json:"chaveObjeto"`
	TipoConteudo string `json:"tipoConteudo"`
	TamanhoBytes int64  `json:"tamanhoBytes"`
	EhCapa       bool   `json:"ehCapa"`
}

type ImagemAlbumComUrlDto struct {
	ImagemAlbumDto
	URL string `json:"url"`
}

type UrlDto struct {
	URL string `json:"url"`
}

func toImagemAlbumDto(img models.AlbumImage) ImagemAlbumDto {
	return ImagemAlbumDto{
		ID:           img.ID,
		ChaveObjeto:  img.ObjectKey,
		TipoConteudo: img.ContentType,
		TamanhoBytes: img.Size,
		EhCapa:       img.IsCover,
	}
}

// ImageList returns the album's images. With ?comUrl=true every entry also
// carries a presigned GET URL using the default expiry.
func ImageList(c *gin.Context, user *models.User) {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	images, err := models.AlbumImages(db.Instance, albumID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if c.Query("comUrl") == "true" {
		expiry := time.Duration(config.PRESIGN_EXPIRY_SECONDS) * time.Second
		result := make([]ImagemAlbumComUrlDto, 0, len(images))
		for _, img := range images {
			url, err := storage.Instance.PresignedGetURL(img.ObjectKey, expiry)
			if err != nil {
				httperr.Respond(c, err)
				return
			}
			result = append(result, ImagemAlbumComUrlDto{ImagemAlbumDto: toImagemAlbumDto(img), URL: url})
		}
		c.JSON(http.StatusOK, result)
		return
	}
	result := make([]ImagemAlbumDto, 0, len(images))
	for _, img := range images {
		result = append(result, toImagemAlbumDto(img))
	}
	c.JSON(http.StatusOK, result)
}

// ImageUpload stores a multipart batch ("arquivos") for the album. This is
// the strict mode: files are required and a given "indiceCapa" must address
// one of them.
func ImageUpload(c *gin.Context, user *models.User) {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		httperr.Respond(c, httperr.InvalidInput("%s", err.Error()))
		return
	}
	files, closeFiles, err := openUploadFiles(form.File["arquivos"])
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer closeFiles()
	coverIndex, err := formCoverIndex(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var created []models.AlbumImage
	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		created, err = models.UploadAlbumImages(tx, events, albumID, files, coverIndex, models.UploadStrict)
		return err
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	result := make([]ImagemAlbumDto, 0, len(created))
	for _, img := range created {
		result = append(result, toImagemAlbumDto(img))
	}
	c.JSON(http.StatusCreated, result)
}

func ImageSetCover(c *gin.Context, user *models.User) {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	imageID, err := paramID(c, "imagemId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	var img models.AlbumImage
	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		img, err = models.SetAlbumCover(tx, events, albumID, imageID)
		return err
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toImagemAlbumDto(img))
}

// ImageURL returns a presigned GET URL. The default expiry can only be
// shortened by the "expiracao" query parameter (seconds), never extended.
func ImageURL(c *gin.Context, user *models.User) {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	imageID, err := paramID(c, "imagemId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	expiry := time.Duration(config.PRESIGN_EXPIRY_SECONDS) * time.Second
	if v := c.Query("expiracao"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds < 1 {
			httperr.Respond(c, httperr.InvalidInput("Parâmetro expiracao inválido: %s", v))
			return
		}
		if requested := time.Duration(seconds) * time.Second; requested < expiry {
			expiry = requested
		}
	}
	img, err := models.AlbumImageByID(db.Instance, albumID, imageID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	url, err := storage.Instance.PresignedGetURL(img.ObjectKey, expiry)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, UrlDto{URL: url})
}

func ImageDelete(c *gin.Context, user *models.User) {
	albumID, err := paramID(c, "albumId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	imageID, err := paramID(c, "imagemId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		return models.DeleteAlbumImage(tx, albumID, imageID)
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
