package storage

import (
	"context"
	"io"
	"time"

	"artists/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage talks to the bucket through two clients: the internal one for
// uploads and deletes, and the public one so presigned URLs carry a host that
// is reachable from outside.
type MinioStorage struct {
	internal *minio.Client
	public   *minio.Client
	bucket   string
}

func Init() {
	internal, err := newClient(config.MINIO_INTERNAL_ENDPOINT)
	if err != nil {
		panic(err)
	}
	public := internal
	if config.MINIO_PUBLIC_ENDPOINT != "" && config.MINIO_PUBLIC_ENDPOINT != config.MINIO_INTERNAL_ENDPOINT {
		public, err = newClient(config.MINIO_PUBLIC_ENDPOINT)
		if err != nil {
			panic(err)
		}
	}
	Instance = &MinioStorage{
		internal: internal,
		public:   public,
		bucket:   config.MINIO_BUCKET,
	}
}

func newClient(endpoint string) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.MINIO_ACCESS_KEY, config.MINIO_SECRET_KEY, ""),
		Secure: config.MINIO_USE_SSL,
		Region: config.MINIO_REGION,
	})
}

func (m *MinioStorage) Upload(objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := m.internal.PutObject(context.Background(), m.bucket, objectKey, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return &Error{Op: "put", Key: objectKey, Err: err}
	}
	return nil
}

func (m *MinioStorage) Delete(objectKey string) error {
	err := m.internal.RemoveObject(context.Background(), m.bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return &Error{Op: "delete", Key: objectKey, Err: err}
	}
	return nil
}

func (m *MinioStorage) PresignedGetURL(objectKey string, expiry time.Duration) (string, error) {
	u, err := m.public.PresignedGetObject(context.Background(), m.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", &Error{Op: "presign", Key: objectKey, Err: err}
	}
	return u.String(), nil
}

func (m *MinioStorage) Ping() error {
	ok, err := m.internal.BucketExists(context.Background(), m.bucket)
	if err != nil {
		return &Error{Op: "ping", Key: m.bucket, Err: err}
	}
	if !ok {
		return &Error{Op: "ping", Key: m.bucket, Err: minio.ErrorResponse{Code: "NoSuchBucket", Message: "bucket not found"}}
	}
	return nil
}
