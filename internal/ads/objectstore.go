package ads

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore hands out time-limited URLs for creative assets kept in an
// S3-compatible bucket.
type ObjectStore struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func NewObjectStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}
	return &ObjectStore{
		client: client,
		bucket: bucket,
		ttl:    time.Hour,
	}, nil
}

// PresignURL returns a time-limited GET URL for the named object.
func (s *ObjectStore) PresignURL(ctx context.Context, object string) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, object, s.ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", object, err)
	}
	return url.String(), nil
}

// Healthy reports whether the configured bucket is reachable.
func (s *ObjectStore) Healthy(ctx context.Context) bool {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	return err == nil && exists
}
