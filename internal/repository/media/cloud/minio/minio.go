package minio

import (
	"context"
	"fmt"
	"io"

	"image-publisher/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"
)

// FileRepository stores share-link artifacts in a public MinIO bucket.
// Objects are named by the caller with collision-free identifiers and are
// never overwritten.
type FileRepository struct {
	client *minio.Client
	bucket string
	logger *zlog.Zerolog
}

func NewMinIORepository(cfg config.MinIOConfig, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	repo := &FileRepository{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}

	if err := repo.ensureBucket(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *FileRepository) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", r.bucket, err)
	}
	if exists {
		return nil
	}

	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}

	r.logger.Info().Str("bucket", r.bucket).Msg("Bucket created")
	return nil
}

// SaveArtifact writes the object and returns its public path below the
// storage host.
func (r *FileRepository) SaveArtifact(ctx context.Context, name string, data io.Reader, size int64, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, r.bucket, name, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", name, err)
	}

	r.logger.Debug().Str("bucket", r.bucket).Str("object", name).Int64("size", size).Msg("Artifact stored")
	return "/" + r.bucket + "/" + name, nil
}

// GetArtifact streams a stored object, for serving or verification.
func (r *FileRepository) GetArtifact(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", name, err)
	}
	return obj, nil
}

// DeleteArtifact removes a stored object. Used by operators, never by the
// request path.
func (r *FileRepository) DeleteArtifact(ctx context.Context, name string) error {
	if err := r.client.RemoveObject(ctx, r.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", name, err)
	}
	return nil
}
