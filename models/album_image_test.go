package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"artists/db"
	"artists/httperr"
	"artists/notifications"
)

func TestUploadAlbumImagesStrict(t *testing.T) {
	store := testInit(t)
	album := makeAlbum(t, "Ventura")
	events := notifications.NewQueue()

	files := []UploadFile{
		uploadFile("image/jpeg", 100),
		uploadFile("image/png", 200),
		uploadFile("image/webp", 300),
	}
	created, err := UploadAlbumImages(db.Instance, events, album.ID, files, intp(1), UploadStrict)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created = %d, want 3", len(created))
	}
	for i, img := range created {
		if img.AlbumID != album.ID {
			t.Errorf("image %d album = %d, want %d", i, img.AlbumID, album.ID)
		}
		if !strings.HasPrefix(img.ObjectKey, "albuns/") {
			t.Errorf("image %d key = %q, missing namespace", i, img.ObjectKey)
		}
		if !store.has(img.ObjectKey) {
			t.Errorf("image %d key %q not in store", i, img.ObjectKey)
		}
		if img.IsCover != (i == 1) {
			t.Errorf("image %d cover = %v", i, img.IsCover)
		}
	}
	if events.Len() != 1 {
		t.Fatalf("queued notifications = %d, want 1", events.Len())
	}

	received := [][]byte{}
	client := notifications.AddClient("strict-upload-test", func(data []byte) bool {
		received = append(received, data)
		return true
	})
	defer notifications.RemoveClient("strict-upload-test", client)
	events.Flush()
	if len(received) != 1 {
		t.Fatalf("delivered = %d, want 1", len(received))
	}
	var n notifications.Notification
	if err := json.Unmarshal(received[0], &n); err != nil {
		t.Fatal(err)
	}
	if n.Type != notifications.TypeImagesUploaded {
		t.Errorf("notification type = %q", n.Type)
	}
	if qtd, ok := n.Meta["qtd"].(float64); !ok || int(qtd) != 3 {
		t.Errorf("meta qtd = %v, want 3", n.Meta["qtd"])
	}
	if temCapa, ok := n.Meta["temCapa"].(bool); !ok || !temCapa {
		t.Errorf("meta temCapa = %v, want true", n.Meta["temCapa"])
	}
}

func TestUploadAlbumImagesStrictRequiresFiles(t *testing.T) {
	testInit(t)
	album := makeAlbum(t, "Ventura")

	_, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID, nil, nil, UploadStrict)
	var invalid *httperr.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidInputError", err)
	}
	if invalid.Message != "Arquivos são obrigatórios" {
		t.Errorf("message = %q", invalid.Message)
	}
}

func TestUploadAlbumImagesStrictCoverOutOfRange(t *testing.T) {
	store := testInit(t)
	album := makeAlbum(t, "Ventura")

	for _, index := range []int{-1, 2, 10} {
		files := []UploadFile{uploadFile("image/png", 10), uploadFile("image/png", 10)}
		_, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID, files, intp(index), UploadStrict)
		var invalid *httperr.InvalidInputError
		if !errors.As(err, &invalid) {
			t.Fatalf("index %d: err = %v, want InvalidInputError", index, err)
		}
		if invalid.Message != "indiceCapa inválido. Use 0 até 1" {
			t.Errorf("index %d: message = %q", index, invalid.Message)
		}
	}
	if store.count() != 0 {
		t.Errorf("store has %d objects, want 0", store.count())
	}
}

// A strict upload without an index adds images but never touches the cover.
func TestUploadAlbumImagesStrictKeepsCover(t *testing.T) {
	testInit(t)
	album := makeAlbum(t, "Ventura")

	first, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
		[]UploadFile{uploadFile("image/png", 10)}, intp(0), UploadStrict)
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
		[]UploadFile{uploadFile("image/png", 10)}, nil, UploadStrict)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if second[0].IsCover {
		t.Error("second batch got a cover without an index")
	}
	cover, err := AlbumImageByID(db.Instance, album.ID, first[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if !cover.IsCover {
		t.Error("original cover lost")
	}
}

func TestUploadAlbumImagesOptional(t *testing.T) {
	testInit(t)
	album := makeAlbum(t, "Ventura")

	created, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID, nil, nil, UploadOptional)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("empty batch created %d images", len(created))
	}

	// A missing or out-of-range index falls back to the first file.
	for _, index := range []*int{nil, intp(7), intp(-3)} {
		files := []UploadFile{uploadFile("image/png", 10), uploadFile("image/png", 10)}
		created, err = UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID, files, index, UploadOptional)
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		if !created[0].IsCover || created[1].IsCover {
			t.Errorf("index %v: covers = %v/%v, want first only", index, created[0].IsCover, created[1].IsCover)
		}
	}
}

func TestUploadAlbumImagesReplacesCover(t *testing.T) {
	testInit(t)
	album := makeAlbum(t, "Ventura")

	first, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
		[]UploadFile{uploadFile("image/png", 10)}, intp(0), UploadStrict)
	if err != nil {
		t.Fatal(err)
	}
	_, err = UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
		[]UploadFile{uploadFile("image/jpeg", 10)}, intp(0), UploadStrict)
	if err != nil {
		t.Fatal(err)
	}
	images, err := AlbumImages(db.Instance, album.ID)
	if err != nil {
		t.Fatal(err)
	}
	covers := 0
	for _, img := range images {
		if img.IsCover {
			covers++
			if img.ID == first[0].ID {
				t.Error("old cover still set")
			}
		}
	}
	if covers != 1 {
		t.Errorf("covers = %d, want 1", covers)
	}
}

func TestUploadAlbumImagesValidation(t *testing.T) {
	testInit(t)
	album := makeAlbum(t, "Ventura")

	tests := []struct {
		name string
		file UploadFile
		want string
	}{
		{"empty", UploadFile{ContentType: "image/png"}, "Arquivo é obrigatório"},
		{"too large", uploadFile("image/png", MaxUploadBytes+1), "Arquivo excede o limite de 10MB"},
		{"bad type", uploadFile("image/gif", 10), "Tipo de arquivo inválido. Use JPEG, PNG ou WEBP"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
				[]UploadFile{tc.file}, nil, UploadStrict)
			var failed *httperr.UploadFailedError
			if !errors.As(err, &failed) {
				t.Fatalf("err = %v, want UploadFailedError", err)
			}
			var invalid *httperr.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("err = %v, want wrapped InvalidInputError", err)
			}
			if invalid.Message != tc.want {
				t.Errorf("message = %q, want %q", invalid.Message, tc.want)
			}
		})
	}
}

func TestUploadAlbumImagesContentTypeCase(t *testing.T) {
	testInit(t)
	album := makeAlbum(t, "Ventura")

	_, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
		[]UploadFile{uploadFile("IMAGE/PNG", 10)}, nil, UploadStrict)
	if err != nil {
		t.Fatalf("uppercase content type rejected: %v", err)
	}
}

// A failure mid-batch must delete already-stored objects, roll back every row
// of the batch and broadcast the failure even though the transaction dies.
func TestUploadAlbumImagesCompensation(t *testing.T) {
	store := testInit(t)
	album := makeAlbum(t, "Ventura")
	store.failUploadAt = 2

	var received [][]byte
	client := notifications.AddClient("compensation-test", func(data []byte) bool {
		received = append(received, data)
		return true
	})
	defer notifications.RemoveClient("compensation-test", client)

	err := db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		files := []UploadFile{
			uploadFile("image/png", 10),
			uploadFile("image/png", 10),
			uploadFile("image/png", 10),
		}
		_, err := UploadAlbumImages(tx, events, album.ID, files, intp(0), UploadStrict)
		return err
	})
	var failed *httperr.UploadFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want UploadFailedError", err)
	}
	if failed.Message != "Falha ao enviar imagens para o MinIO" {
		t.Errorf("message = %q", failed.Message)
	}

	if len(store.deleted) != 1 {
		t.Fatalf("deleted = %v, want the first uploaded object", store.deleted)
	}
	if store.count() != 0 {
		t.Errorf("store has %d objects, want 0", store.count())
	}

	var rows int64
	if err := db.Instance.Model(&AlbumImage{}).Where("album_id = ?", album.ID).Count(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if rows != 0 {
		t.Errorf("image rows = %d, want 0 after rollback", rows)
	}

	if len(received) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(received))
	}
	var n notifications.Notification
	if err := json.Unmarshal(received[0], &n); err != nil {
		t.Fatal(err)
	}
	if n.Type != notifications.TypeUploadFailed {
		t.Errorf("notification type = %q", n.Type)
	}
}

func TestSetAlbumCover(t *testing.T) {
	testInit(t)
	album := makeAlbum(t, "Ventura")
	created, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
		[]UploadFile{uploadFile("image/png", 10), uploadFile("image/png", 10)}, intp(0), UploadStrict)
	if err != nil {
		t.Fatal(err)
	}

	events := notifications.NewQueue()
	img, err := SetAlbumCover(db.Instance, events, album.ID, created[1].ID)
	if err != nil {
		t.Fatalf("set cover: %v", err)
	}
	if !img.IsCover {
		t.Error("returned image not marked as cover")
	}
	if events.Len() != 1 {
		t.Errorf("queued notifications = %d, want 1", events.Len())
	}

	images, err := AlbumImages(db.Instance, album.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range images {
		if it.IsCover != (it.ID == created[1].ID) {
			t.Errorf("image %d cover = %v", it.ID, it.IsCover)
		}
	}

	_, err = SetAlbumCover(db.Instance, notifications.NewQueue(), album.ID, 9999)
	var notFound *httperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestDeleteAlbumImage(t *testing.T) {
	store := testInit(t)
	album := makeAlbum(t, "Ventura")
	created, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
		[]UploadFile{uploadFile("image/png", 10)}, nil, UploadStrict)
	if err != nil {
		t.Fatal(err)
	}

	if err := DeleteAlbumImage(db.Instance, album.ID, created[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.has(created[0].ObjectKey) {
		t.Error("blob still in store")
	}
	if _, err := AlbumImageByID(db.Instance, album.ID, created[0].ID); err == nil {
		t.Error("row still present")
	}
}

// When the store refuses the delete, the row has to stay.
func TestDeleteAlbumImageStoreFailure(t *testing.T) {
	store := testInit(t)
	album := makeAlbum(t, "Ventura")
	created, err := UploadAlbumImages(db.Instance, notifications.NewQueue(), album.ID,
		[]UploadFile{uploadFile("image/png", 10)}, nil, UploadStrict)
	if err != nil {
		t.Fatal(err)
	}

	store.failDelete = true
	if err := DeleteAlbumImage(db.Instance, album.ID, created[0].ID); err == nil {
		t.Fatal("delete succeeded despite store failure")
	}
	if _, err := AlbumImageByID(db.Instance, album.ID, created[0].ID); err != nil {
		t.Errorf("row gone after failed store delete: %v", err)
	}
}

func TestAlbumImagesUnknownAlbum(t *testing.T) {
	testInit(t)
	_, err := AlbumImages(db.Instance, 42)
	var notFound *httperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}

	_, err = UploadAlbumImages(db.Instance, notifications.NewQueue(), 42,
		[]UploadFile{uploadFile("image/png", 10)}, nil, UploadStrict)
	if !errors.As(err, &notFound) {
		t.Fatalf("upload err = %v, want NotFoundError", err)
	}
}
