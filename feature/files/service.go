package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"filestore/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// listPageSize caps enumeration at a single listing page. Prefixes holding
// more objects than this return truncated results.
const listPageSize = 1000

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("file not found")

// Service provides the file operations against the configured bucket.
// It holds the single shared storage client and performs no retries:
// every failure is logged and returned to the caller as-is.
type Service struct {
	client    storage.Client
	bucket    string
	urlExpiry time.Duration
	logger    *zap.Logger
}

// NewService creates a new files service. urlExpiry is the default lifetime
// of presigned URLs when the caller does not supply one.
func NewService(client storage.Client, bucket string, urlExpiry time.Duration, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		bucket:    bucket,
		urlExpiry: urlExpiry,
		logger:    logger,
	}
}

// Upload writes an object and returns a presigned URL referencing it.
func (s *Service) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("Failed to upload file", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload file %q: %w", key, err)
	}

	s.logger.Info("Uploaded file", zap.String("key", key), zap.Int("size", len(data)))

	return s.PresignedURL(ctx, key, 0)
}

// Download streams an object's content back to the caller, along with its
// size and stored content type. Missing keys surface as ErrNotFound; minio's
// GetObject is lazy and would otherwise fail only mid-stream. The returned
// reader must be closed by the caller.
func (s *Service) Download(ctx context.Context, key string) (io.ReadCloser, int64, string, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		var errResp minio.ErrorResponse
		if errors.As(err, &errResp) && errResp.Code == "NoSuchKey" {
			s.logger.Warn("File not found", zap.String("key", key))
			return nil, 0, "", fmt.Errorf("%q: %w", key, ErrNotFound)
		}
		s.logger.Error("Failed to stat file", zap.String("key", key), zap.Error(err))
		return nil, 0, "", fmt.Errorf("failed to stat file %q: %w", key, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		s.logger.Error("Failed to download file", zap.String("key", key), zap.Error(err))
		return nil, 0, "", fmt.Errorf("failed to download file %q: %w", key, err)
	}
	return obj, stat.Size, stat.ContentType, nil
}

// Delete removes an object. Deleting a key that does not exist is not an
// error; the operation is idempotent from the caller's perspective.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("Failed to delete file", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete file %q: %w", key, err)
	}

	s.logger.Info("Deleted file", zap.String("key", key))
	return nil
}

// List enumerates objects under a prefix, decorating each record with a
// presigned download URL.
func (s *Service) List(ctx context.Context, prefix string) ([]FileRecord, error) {
	records, err := s.ListWithoutURLs(ctx, prefix)
	if err != nil {
		return nil, err
	}

	for i := range records {
		u, err := s.PresignedURL(ctx, records[i].Key, 0)
		if err != nil {
			return nil, err
		}
		records[i].URL = u
	}

	return records, nil
}

// ListWithoutURLs enumerates objects under a prefix without generating
// URLs. Used by bulk cleanup, where URLs are unnecessary overhead.
func (s *Service) ListWithoutURLs(ctx context.Context, prefix string) ([]FileRecord, error) {
	// Cancel the listing producer once we stop reading the channel
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	objCh := s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
		MaxKeys:   listPageSize,
	})

	records := make([]FileRecord, 0)
	for obj := range objCh {
		if obj.Err != nil {
			s.logger.Error("Failed to list files", zap.String("prefix", prefix), zap.Error(obj.Err))
			return nil, fmt.Errorf("failed to list files under %q: %w", prefix, obj.Err)
		}
		records = append(records, FileRecord{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
		if len(records) >= listPageSize {
			break
		}
	}

	return records, nil
}

// PresignedURL produces a time-limited download URL for a key. An expiry
// of zero or less falls back to the configured default. Expiry is always
// supplied by the caller, never inferred from any session lifetime.
func (s *Service) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.urlExpiry
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		s.logger.Error("Failed to generate presigned URL", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to generate presigned URL for %q: %w", key, err)
	}

	s.logger.Debug("Generated presigned URL", zap.String("key", key), zap.Duration("expires_in", expiry))
	return u.String(), nil
}

// Cleanup removes every object under a prefix and returns how many were
// deleted. Used for workspace teardown.
func (s *Service) Cleanup(ctx context.Context, prefix string) (int, error) {
	records, err := s.ListWithoutURLs(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(records))
	for _, r := range records {
		objectsCh <- minio.ObjectInfo{Key: r.Key}
	}
	close(objectsCh)

	removed := len(records)
	for rErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil {
			removed--
			s.logger.Error("Failed to remove file during cleanup",
				zap.String("key", rErr.ObjectName),
				zap.Error(rErr.Err))
			err = fmt.Errorf("failed to remove %q: %w", rErr.ObjectName, rErr.Err)
		}
	}
	if err != nil {
		return removed, err
	}

	s.logger.Info("Cleanup completed", zap.String("prefix", prefix), zap.Int("removed", removed))
	return removed, nil
}
