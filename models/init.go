package models

import (
	"artists/db"
)

func Init() {
	db.Instance.AutoMigrate(&Artist{})
	db.Instance.AutoMigrate(&Album{})
	db.Instance.AutoMigrate(&AlbumImage{})
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&RefreshToken{})
	db.Instance.AutoMigrate(&Regional{})
}
