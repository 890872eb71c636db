package infra

import (
	"context"
	"fmt"
	"io"

	"github.com/draftdeck/design-service/config"
	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioClient struct {
	Admin         *madmin.AdminClient
	Client        *minio.Client
	Endpoint      string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
}

// BucketLimits is the informational quota report for the design bucket.
type BucketLimits struct {
	MaxBytes int64 `json:"max_bytes"`
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	rootUser := cfg.Minio.RootUser
	if rootUser == "" {
		panic("MinIO root user is not configured")
	}

	rootPassword := cfg.Minio.RootPassword
	if rootPassword == "" {
		panic("MinIO root password is not configured")
	}

	madminClient, err := madmin.New(endpoint, rootUser, rootPassword, cfg.Minio.UseSSL)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO admin client: %v", err))
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	return &MinioClient{
		Admin:         madminClient,
		Client:        minioClient,
		Endpoint:      endpoint,
		Bucket:        cfg.Minio.Bucket,
		PublicBaseURL: cfg.Minio.PublicBaseURL,
		UseSSL:        cfg.Minio.UseSSL,
	}
}

// EnsureBucket creates the design bucket if it does not exist yet.
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", m.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", m.Bucket, err)
	}
	return nil
}

// Put writes an object and returns its retrievable URL.
func (m *MinioClient) Put(ctx context.Context, path string, reader io.Reader, size int64, contentType string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("object path cannot be empty")
	}

	_, err := m.Client.PutObject(ctx, m.Bucket, path, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %q: %w", path, err)
	}

	return m.publicURL(path), nil
}

// Remove deletes an object. Used by file deletion, best effort.
func (m *MinioClient) Remove(ctx context.Context, path string) error {
	return m.Client.RemoveObject(ctx, m.Bucket, path, minio.RemoveObjectOptions{})
}

// GetBucketLimits reports the configured quota of the design bucket.
// A zero MaxBytes means no quota is set.
func (m *MinioClient) GetBucketLimits(ctx context.Context) (*BucketLimits, error) {
	quota, err := m.Admin.GetBucketQuota(ctx, m.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket quota: %w", err)
	}
	return &BucketLimits{MaxBytes: int64(quota.Quota)}, nil
}

func (m *MinioClient) publicURL(path string) string {
	if m.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", m.PublicBaseURL, m.Bucket, path)
	}
	scheme := "http"
	if m.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.Endpoint, m.Bucket, path)
}
