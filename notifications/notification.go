package notifications

import "time"

// Domain event types broadcast to connected clients
const (
	TypeAlbumCreated    = "album.created"
	TypeAlbumUpdated    = "album.updated"
	TypeAlbumDeleted    = "album.deleted"
	TypeImagesUploaded  = "images.uploaded"
	TypeUploadFailed    = "upload.failed"
	TypeCoverChanged    = "cover.changed"
	TypeRegionalsSynced = "regionals.synced"
)

type Notification struct {
	Type      string         `json:"type"`
	Entity    string         `json:"entity"`
	EntityID  uint64         `json:"entityId"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Meta      map[string]any `json:"meta,omitempty"`
}
