package models

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"artists/httperr"
	"artists/notifications"
	"artists/storage"
)

const MaxUploadBytes = 10 * 1024 * 1024

type AlbumImage struct {
	ID          uint64 `gorm:"primaryKey"`
	AlbumID     uint64 `gorm:"not null;index"`
	Album       Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ObjectKey   string `gorm:"type:varchar(500);index:uniq_object_key,unique;not null"`
	ContentType string `gorm:"type:varchar(100)"`
	Size        int64
	IsCover     bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

// UploadMode controls how an empty batch and the cover index are treated.
// Strict is the stand-alone upload endpoint: files are required and a given
// cover index must be in range. Optional is used when creating an album with
// initial images: an empty batch is a no-op and a missing or out-of-range
// cover index falls back to the first file.
type UploadMode int

const (
	UploadStrict UploadMode = iota
	UploadOptional
)

type UploadFile struct {
	Content     io.Reader
	Size        int64
	ContentType string
}

// UploadAlbumImages stores every file in the object store and persists one
// image row per file, in input order, inside the caller's transaction. If
// anything fails mid-batch, objects already uploaded are deleted best-effort
// and the error is returned wrapped; row cleanup is the transaction rollback.
func UploadAlbumImages(tx *gorm.DB, events *notifications.Queue, albumID uint64, files []UploadFile, coverIndex *int, mode UploadMode) ([]AlbumImage, error) {
	album, err := AlbumByID(tx, albumID)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		if mode == UploadStrict {
			return nil, httperr.InvalidFile("Arquivos são obrigatórios")
		}
		return []AlbumImage{}, nil
	}

	hasCover := false
	resolvedIndex := 0
	switch mode {
	case UploadStrict:
		if coverIndex != nil {
			if *coverIndex < 0 || *coverIndex >= len(files) {
				return nil, httperr.InvalidFile("indiceCapa inválido. Use 0 até %d", len(files)-1)
			}
			hasCover = true
			resolvedIndex = *coverIndex
		}
	case UploadOptional:
		hasCover = true
		if coverIndex != nil && *coverIndex >= 0 && *coverIndex < len(files) {
			resolvedIndex = *coverIndex
		}
	}

	if hasCover {
		if err := clearAlbumCovers(tx, albumID); err != nil {
			return nil, err
		}
	}

	uploadedKeys := []string{}
	created := []AlbumImage{}
	err = func() error {
		for i, file := range files {
			if err := validateUploadFile(file); err != nil {
				return err
			}
			key := storage.AlbumObjectKey(albumID, file.ContentType)
			if err := storage.Instance.Upload(key, file.Content, file.Size, file.ContentType); err != nil {
				return err
			}
			uploadedKeys = append(uploadedKeys, key)

			img := AlbumImage{
				AlbumID:     album.ID,
				ObjectKey:   key,
				ContentType: file.ContentType,
				Size:        file.Size,
				IsCover:     hasCover && i == resolvedIndex,
			}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
			created = append(created, img)
		}
		return nil
	}()
	if err != nil {
		for _, key := range uploadedKeys {
			_ = storage.Instance.Delete(key)
		}
		// The transaction rolls back, so this one bypasses the queue.
		notifications.Broadcast(notifications.Notification{
			Type:     notifications.TypeUploadFailed,
			Entity:   "album",
			EntityID: albumID,
			Title:    "Falha no upload de imagens",
			Message:  err.Error(),
		})
		return nil, httperr.UploadFailed(err, "Falha ao enviar imagens para o MinIO")
	}

	events.Publish(notifications.Notification{
		Type:     notifications.TypeImagesUploaded,
		Entity:   "album",
		EntityID: albumID,
		Title:    "Imagens enviadas",
		Message:  fmt.Sprintf("%d imagem(ns) adicionada(s) ao álbum %d", len(created), albumID),
		Meta:     map[string]any{"qtd": len(created), "temCapa": hasCover},
	})
	return created, nil
}

func validateUploadFile(file UploadFile) error {
	if file.Content == nil || file.Size == 0 {
		return httperr.InvalidFile("Arquivo é obrigatório")
	}
	if file.Size > MaxUploadBytes {
		return httperr.InvalidFile("Arquivo excede o limite de 10MB")
	}
	switch strings.ToLower(file.ContentType) {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return httperr.InvalidFile("Tipo de arquivo inválido. Use JPEG, PNG ou WEBP")
	}
	return nil
}

// clearAlbumCovers is a single set-based update so concurrent clear-then-set
// sequences on the same album stay last-writer-wins instead of racing
// per-row reads.
func clearAlbumCovers(tx *gorm.DB, albumID uint64) error {
	return tx.Model(&AlbumImage{}).Where("album_id = ?", albumID).Update("is_cover", false).Error
}

// SetAlbumCover makes the given image the album's only cover.
func SetAlbumCover(tx *gorm.DB, events *notifications.Queue, albumID, imageID uint64) (AlbumImage, error) {
	img, err := AlbumImageByID(tx, albumID, imageID)
	if err != nil {
		return img, err
	}
	if err := clearAlbumCovers(tx, albumID); err != nil {
		return img, err
	}
	if err := tx.Model(&img).Update("is_cover", true).Error; err != nil {
		return img, err
	}
	img.IsCover = true

	events.Publish(notifications.Notification{
		Type:     notifications.TypeCoverChanged,
		Entity:   "imagem",
		EntityID: imageID,
		Title:    "Capa alterada",
		Message:  fmt.Sprintf("Imagem %d agora é a capa do álbum %d", imageID, albumID),
		Meta:     map[string]any{"albumId": albumID},
	})
	return img, nil
}

func AlbumImageByID(tx *gorm.DB, albumID, imageID uint64) (AlbumImage, error) {
	var img AlbumImage
	err := tx.First(&img, "id = ? AND album_id = ?", imageID, albumID).Error
	if err == gorm.ErrRecordNotFound {
		return img, httperr.NotFound("Imagem não encontrada: %d", imageID)
	}
	return img, err
}

func AlbumImages(tx *gorm.DB, albumID uint64) ([]AlbumImage, error) {
	exists, err := AlbumExists(tx, albumID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, httperr.NotFound("Álbum não encontrado: %d", albumID)
	}
	images := []AlbumImage{}
	err = tx.Order("id ASC").Find(&images, "album_id = ?", albumID).Error
	return images, err
}

// DeleteAlbumImage removes the blob first; only when the store confirmed the
// delete is the row removed. A failed store delete leaves the row in place.
func DeleteAlbumImage(tx *gorm.DB, albumID, imageID uint64) error {
	img, err := AlbumImageByID(tx, albumID, imageID)
	if err != nil {
		return err
	}
	if err := storage.Instance.Delete(img.ObjectKey); err != nil {
		return err
	}
	return tx.Delete(&img).Error
}
