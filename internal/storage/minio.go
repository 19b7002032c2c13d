package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds S3-compatible object storage configuration.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL overrides the URL prefix returned for stored objects,
	// for deployments fronted by a CDN. Defaults to the endpoint itself.
	PublicBaseURL string
}

// MinioStorage implements Storage on any S3-compatible service via MinIO.
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorage connects to the object store and ensures the bucket exists.
func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &MinioStorage{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Upload stores an object in the bucket.
func (s *MinioStorage) Upload(ctx context.Context, input *UploadInput) (*UploadResult, error) {
	opts := minio.PutObjectOptions{ContentType: input.ContentType}
	if _, err := s.client.PutObject(ctx, s.bucket, input.Key, input.Data, input.Size, opts); err != nil {
		return nil, fmt.Errorf("put object %s: %w", input.Key, err)
	}

	url, err := s.GetURL(ctx, input.Key)
	if err != nil {
		return nil, err
	}
	return &UploadResult{Key: input.Key, URL: url}, nil
}

// Delete removes an object from the bucket.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// GetURL returns the public URL for an object key.
func (s *MinioStorage) GetURL(_ context.Context, key string) (string, error) {
	return s.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}
