package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"motri-backend/shared/config"
)

// ImageStorage stores report images in a MinIO bucket.
type ImageStorage struct {
	client     *minio.Client
	bucketName string
}

// NewImageStorage connects to MinIO and ensures the bucket exists.
func NewImageStorage(cfg *config.Config) (*ImageStorage, error) {
	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	storage := &ImageStorage{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	if err := storage.initializeBucket(); err != nil {
		return nil, err
	}

	return storage, nil
}

func (s *ImageStorage) initializeBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	}

	return nil
}

// Upload stores an image under objectKey.
func (s *ImageStorage) Upload(ctx context.Context, reader io.Reader, objectKey string, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload image: %v", err)
	}
	return nil
}

// Remove deletes an image. Callers treat failures as best-effort.
func (s *ImageStorage) Remove(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
}

// PresignedURL returns a short-lived download link for an image.
func (s *ImageStorage) PresignedURL(ctx context.Context, objectKey string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey, 15*time.Minute, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign image url: %v", err)
	}
	return u.String(), nil
}
