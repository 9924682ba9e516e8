package models

import (
	"time"
)

type Artist struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);not null"`
	Genre     string `gorm:"type:varchar(100)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Albums    []Album `gorm:"many2many:artists_albums;"`
}
