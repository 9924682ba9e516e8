package models

import (
	"time"

	"gorm.io/gorm"

	"artists/httperr"
)

type Album struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"type:varchar(255);not null"`
	ReleaseDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Artists     []Artist     `gorm:"many2many:artists_albums;"`
	Images      []AlbumImage `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AlbumByID loads the album only; images and artists require explicit loads
// (LoadImages / LoadArtists) so no handler depends on implicit fetching.
func AlbumByID(tx *gorm.DB, id uint64) (Album, error) {
	var album Album
	if err := tx.First(&album, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return album, httperr.NotFound("Álbum não encontrado: %d", id)
		}
		return album, err
	}
	return album, nil
}

func AlbumExists(tx *gorm.DB, id uint64) (bool, error) {
	var count int64
	if err := tx.Model(&Album{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *Album) LoadImages(tx *gorm.DB) error {
	return tx.Order("id ASC").Find(&a.Images, "album_id = ?", a.ID).Error
}

func (a *Album) LoadArtists(tx *gorm.DB) error {
	return tx.Model(a).Association("Artists").Find(&a.Artists)
}

// ArtistsByIDs resolves the referenced artist set, failing if any id is unknown.
func ArtistsByIDs(tx *gorm.DB, ids []uint64) ([]Artist, error) {
	var artists []Artist
	if len(ids) == 0 {
		return artists, nil
	}
	if err := tx.Find(&artists, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	if len(artists) != len(ids) {
		found := map[uint64]bool{}
		for _, a := range artists {
			found[a.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, httperr.NotFound("Artista não encontrado: %d", id)
			}
		}
	}
	return artists, nil
}
