package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"artists/db"
	"artists/httperr"
	"artists/models"
	"artists/notifications"
	"artists/storage"
)

type AlbumDto struct {
	ID             uint64           `json:"id"`
	Titulo         string           `json:"titulo"`
	DataLancamento string           `json:"dataLancamento,omitempty"`
	ArtistaIds     []uint64         `json:"artistaIds"`
	Imagens        []ImagemAlbumDto `json:"imagens,omitempty"`
}

type AlbumCreateRequest struct {
	Titulo         string   `json:"titulo" binding:"required"`
	DataLancamento string   `json:"dataLancamento"`
	ArtistaIds     []uint64 `json:"artistaIds"`
}

var albumSortable = map[string]string{
	"id":             "id",
	"titulo":         "title",
	"dataLancamento": "release_date",
	"criadoEm":       "created_at",
}

const releaseDateLayout = "2006-01-02"

func toAlbumDto(a models.Album) AlbumDto {
	dto := AlbumDto{ID: a.ID, Titulo: a.Title, ArtistaIds: []uint64{}}
	if a.ReleaseDate != nil {
		dto.DataLancamento = a.ReleaseDate.Format(releaseDateLayout)
	}
	for _, artist := range a.Artists {
		dto.ArtistaIds = append(dto.ArtistaIds, artist.ID)
	}
	for _, img := range a.Images {
		dto.Imagens = append(dto.Imagens, toImagemAlbumDto(img))
	}
	return dto
}

// AlbumCreate accepts a plain JSON body, or a multipart form carrying the
// album fields plus optional initial images ("arquivos"). Initial images use
// the optional upload mode: an empty file list is fine and the cover defaults
// to the first file.
func AlbumCreate(c *gin.Context, user *models.User) {
	if c.ContentType() == "multipart/form-data" {
		albumCreateMultipart(c)
		return
	}
	var req AlbumCreateRequest
	if err := bindJSON(c, &req); err != nil {
		httperr.Respond(c, err)
		return
	}
	album, err := buildAlbum(req.Titulo, req.DataLancamento)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		if err := createAlbum(tx, events, &album, req.ArtistaIds); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAlbumDto(album))
}

func albumCreateMultipart(c *gin.Context) {
	titulo := c.PostForm("titulo")
	if titulo == "" {
		httperr.Respond(c, &httperr.InvalidInputError{
			Message: "Campos inválidos",
			Campos:  map[string]string{"titulo": "required"},
		})
		return
	}
	album, err := buildAlbum(titulo, c.PostForm("dataLancamento"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	artistIDs, err := formArtistIDs(c)
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

	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		if err := createAlbum(tx, events, &album, artistIDs); err != nil {
			return err
		}
		images, err := models.UploadAlbumImages(tx, events, album.ID, files, coverIndex, models.UploadOptional)
		if err != nil {
			return err
		}
		album.Images = images
		return nil
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAlbumDto(album))
}

func createAlbum(tx *gorm.DB, events *notifications.Queue, album *models.Album, artistIDs []uint64) error {
	artists, err := models.ArtistsByIDs(tx, artistIDs)
	if err != nil {
		return err
	}
	album.Artists = artists
	if err := tx.Create(album).Error; err != nil {
		return err
	}
	events.Publish(notifications.Notification{
		Type:     notifications.TypeAlbumCreated,
		Entity:   "album",
		EntityID: album.ID,
		Title:    "Álbum criado",
		Message:  album.Title,
	})
	return nil
}

func AlbumGet(c *gin.Context, user *models.User) {
	id, err := paramID(c, "albumId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	album, err := models.AlbumByID(db.Instance, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := album.LoadArtists(db.Instance); err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := album.LoadImages(db.Instance); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAlbumDto(album))
}

func AlbumList(c *gin.Context, user *models.User) {
	page, err := ParsePageRequest(c, albumSortable, "id asc")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	query := db.Instance.Model(&models.Album{})
	if v := c.Query("artistaId"); v != "" {
		artistID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.Respond(c, httperr.InvalidInput("Parâmetro artistaId inválido: %s", v))
			return
		}
		query = query.
			Joins("JOIN artists_albums ON artists_albums.album_id = albums.id").
			Where("artists_albums.artist_id = ?", artistID)
	}
	if titulo := c.Query("titulo"); titulo != "" {
		query = query.Where("title LIKE ?", "%"+titulo+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	albums := []models.Album{}
	err = query.Order(page.Order).Offset(page.Offset()).Limit(page.Size).Find(&albums).Error
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	content := make([]AlbumDto, 0, len(albums))
	for i := range albums {
		if err := albums[i].LoadArtists(db.Instance); err != nil {
			httperr.Respond(c, err)
			return
		}
		content = append(content, toAlbumDto(albums[i]))
	}
	c.JSON(http.StatusOK, NewPage(content, page.Page, page.Size, total))
}

func AlbumUpdate(c *gin.Context, user *models.User) {
	id, err := paramID(c, "albumId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	var req AlbumCreateRequest
	if err := bindJSON(c, &req); err != nil {
		httperr.Respond(c, err)
		return
	}
	var album models.Album
	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		album, err = models.AlbumByID(tx, id)
		if err != nil {
			return err
		}
		artists, err := models.ArtistsByIDs(tx, req.ArtistaIds)
		if err != nil {
			return err
		}
		album.Title = req.Titulo
		album.ReleaseDate = nil
		if req.DataLancamento != "" {
			release, err := time.Parse(releaseDateLayout, req.DataLancamento)
			if err != nil {
				return httperr.InvalidInput("Data de lançamento inválida: %s", req.DataLancamento)
			}
			album.ReleaseDate = &release
		}
		if err := tx.Save(&album).Error; err != nil {
			return err
		}
		if err := tx.Model(&album).Association("Artists").Replace(artists); err != nil {
			return err
		}
		album.Artists = artists
		events.Publish(notifications.Notification{
			Type:     notifications.TypeAlbumUpdated,
			Entity:   "album",
			EntityID: album.ID,
			Title:    "Álbum atualizado",
			Message:  album.Title,
		})
		return nil
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAlbumDto(album))
}

// AlbumDelete removes the album and its image rows in one transaction; the
// blobs are deleted best-effort only after the commit, so a failed store
// never blocks nor outlives the database state.
func AlbumDelete(c *gin.Context, user *models.User) {
	id, err := paramID(c, "albumId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	var objectKeys []string
	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		album, err := models.AlbumByID(tx, id)
		if err != nil {
			return err
		}
		if err := album.LoadImages(tx); err != nil {
			return err
		}
		for _, img := range album.Images {
			objectKeys = append(objectKeys, img.ObjectKey)
		}
		if err := tx.Where("album_id = ?", album.ID).Delete(&models.AlbumImage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&album).Association("Artists").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&album).Error; err != nil {
			return err
		}
		events.Publish(notifications.Notification{
			Type:     notifications.TypeAlbumDeleted,
			Entity:   "album",
			EntityID: album.ID,
			Title:    "Álbum removido",
			Message:  album.Title,
		})
		return nil
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	for _, key := range objectKeys {
		_ = storage.Instance.Delete(key)
	}
	c.Status(http.StatusNoContent)
}

func buildAlbum(titulo, dataLancamento string) (models.Album, error) {
	album := models.Album{Title: titulo}
	if dataLancamento != "" {
		release, err := time.Parse(releaseDateLayout, dataLancamento)
		if err != nil {
			return album, httperr.InvalidInput("Data de lançamento inválida: %s", dataLancamento)
		}
		album.ReleaseDate = &release
	}
	return album, nil
}

func formArtistIDs(c *gin.Context) ([]uint64, error) {
	values := c.PostFormArray("artistaIds")
	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, httperr.InvalidInput("Parâmetro artistaIds inválido: %s", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formCoverIndex(c *gin.Context) (*int, error) {
	v := c.PostForm("indiceCapa")
	if v == "" {
		return nil, nil
	}
	idx, err := strconv.Atoi(v)
	if err != nil {
		return nil, httperr.InvalidInput("Parâmetro indiceCapa inválido: %s", v)
	}
	return &idx, nil
}

func openUploadFiles(headers []*multipart.FileHeader) ([]models.UploadFile, func(), error) {
	files := make([]models.UploadFile, 0, len(headers))
	opened := []multipart.File{}
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		files = append(files, models.UploadFile{
			Content:     f,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		})
	}
	return files, closeAll, nil
}
