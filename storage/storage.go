package storage

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API is the narrow contract against the object store. The package keeps a
// single global instance (see Init); tests install a fake.
type API interface {
	Upload(objectKey string, reader io.Reader, size int64, contentType string) error
	Delete(objectKey string) error
	PresignedGetURL(objectKey string, expiry time.Duration) (string, error)
	Ping() error
}

var Instance API

// Error reports a failed object store operation.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// AlbumObjectKey produces a unique key under the album's namespace. The
// extension is derived from the content type; the random component prevents
// collisions across concurrent uploads.
func AlbumObjectKey(albumID uint64, contentType string) string {
	return fmt.Sprintf("albuns/%d/%s%s", albumID, uuid.NewString(), ExtensionFor(contentType))
}

// AlbumPrefix is the key namespace holding all objects of one album.
func AlbumPrefix(albumID uint64) string {
	return fmt.Sprintf("albuns/%d/", albumID)
}

func ExtensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ""
}
