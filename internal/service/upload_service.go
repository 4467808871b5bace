package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/NelsonAGM/AdminRST-sub000/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadService stores order photos and signature images in object
// storage and hands back the URLs the order fields reference.
type UploadService struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewUploadService(client *minio.Client, cfg config.StorageConfig) *UploadService {
	return &UploadService{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: cfg.PublicURL,
	}
}

// Enabled reports whether object storage is configured.
func (s *UploadService) Enabled() bool {
	return s.client != nil
}

// Store uploads one file and returns its public URL.
func (s *UploadService) Store(ctx context.Context, reader io.Reader, filename string, size int64, contentType string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	objectName := fmt.Sprintf("orders/%s/%s%s",
		time.Now().Format("2006/01"),
		uuid.New().String()[:8],
		filepath.Ext(filename),
	)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}
