package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
)

const defaultURLExpiry = 24 * time.Hour

// MinioStore implements ArtifactStorage against any S3-compatible
// endpoint. The bucket is created lazily on first use.
type MinioStore struct {
	client   *minio.Client
	bucket   string
	region   string
	expiry   time.Duration
	initOnce sync.Once
	initErr  error
	logger   arbor.ILogger
}

// NewMinioStore creates an artifact store from object storage config
func NewMinioStore(config *common.ObjectConfig, logger arbor.ILogger) (*MinioStore, error) {
	endpoint := strings.TrimSpace(config.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	access := strings.TrimSpace(config.AccessKey)
	secret := strings.TrimSpace(config.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("object storage access key and secret key are required")
	}
	bucket := strings.TrimSpace(config.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("object storage bucket is required")
	}
	region := strings.TrimSpace(config.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: config.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	expiry := defaultURLExpiry
	if config.URLExpiry != "" {
		if parsed, err := time.ParseDuration(config.URLExpiry); err == nil {
			expiry = parsed
		}
	}

	return &MinioStore{
		client: client,
		bucket: bucket,
		region: region,
		expiry: expiry,
		logger: logger,
	}, nil
}

// ensureBucket creates the bucket on first use
func (s *MinioStore) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.logger.Info().Str("bucket", s.bucket).Msg("Creating artifact bucket")
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put stores an artifact under the given key
func (s *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	key = normalizeKey(key)
	if key == "" {
		return fmt.Errorf("artifact key is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to store artifact %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("size", len(data)).Msg("Artifact stored")
	return nil
}

// Get retrieves an artifact; returns ErrNotFound when the key is absent
func (s *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	key = normalizeKey(key)
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	return data, nil
}

// Exists reports whether an artifact is present
func (s *MinioStore) Exists(ctx context.Context, key string) (bool, error) {
	key = normalizeKey(key)
	if err := s.ensureBucket(ctx); err != nil {
		return false, fmt.Errorf("ensure bucket: %w", err)
	}

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat artifact %s: %w", key, err)
	}
	return true, nil
}

// Delete removes an artifact
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	key = normalizeKey(key)
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete artifact %s: %w", key, err)
	}
	return nil
}

// URL returns a presigned retrieval URL for an artifact. A zero expiry
// uses the configured default.
func (s *MinioStore) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	key = normalizeKey(key)
	if expiry <= 0 {
		expiry = s.expiry
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign artifact URL for %s: %w", key, err)
	}
	return u.String(), nil
}

func normalizeKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}
