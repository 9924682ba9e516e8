package models

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"artists/config"
	"artists/db"
	"artists/storage"
)

// fakeStore stands in for the object store. failUploadAt makes the Nth call
// to Upload fail (1-based); failDelete makes every Delete fail.
type fakeStore struct {
	mu           sync.Mutex
	objects      map[string]int64
	deleted      []string
	uploadCalls  int
	failUploadAt int
	failDelete   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]int64{}}
}

func (s *fakeStore) Upload(objectKey string, reader io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	if s.failUploadAt > 0 && s.uploadCalls == s.failUploadAt {
		return &storage.Error{Op: "upload", Key: objectKey, Err: fmt.Errorf("connection reset")}
	}
	s.objects[objectKey] = size
	return nil
}

func (s *fakeStore) Delete(objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return &storage.Error{Op: "delete", Key: objectKey, Err: fmt.Errorf("connection reset")}
	}
	delete(s.objects, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *fakeStore) PresignedGetURL(objectKey string, expiry time.Duration) (string, error) {
	return "https://store.test/" + objectKey, nil
}

func (s *fakeStore) Ping() error { return nil }

func (s *fakeStore) has(objectKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectKey]
	return ok
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// testInit points the database at a fresh in-memory SQLite and installs a
// fake object store.
func testInit(t *testing.T) *fakeStore {
	t.Helper()
	config.MYSQL_DSN = ""
	config.SQLITE_FILE = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db.Init()
	Init()
	store := newFakeStore()
	storage.Instance = store
	return store
}

func makeAlbum(t *testing.T, title string) Album {
	t.Helper()
	album := Album{Title: title}
	if err := db.Instance.Create(&album).Error; err != nil {
		t.Fatalf("create album: %v", err)
	}
	return album
}

func makeUser(t *testing.T, name, email string) User {
	t.Helper()
	user, err := UserCreate(db.Instance, name, email, "segredo123")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func uploadFile(contentType string, size int64) UploadFile {
	return UploadFile{Content: bytes.NewReader([]byte("conteudo")), Size: size, ContentType: contentType}
}

func intp(i int) *int { return &i }
