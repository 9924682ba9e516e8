package models

import (
	"time"
)

// Regional mirrors one entry of the external regionals list. Renames and
// removals never update rows in place: the active row is deactivated and a
// fresh one inserted, keeping history.
type Regional struct {
	ID         uint64 `gorm:"primaryKey"`
	ExternalID int    `gorm:"not null;index"`
	Name       string `gorm:"type:varchar(200);not null"`
	Active     bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
}
