package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"image-publisher/internal/repository/media"

	"github.com/wb-go/wbf/zlog"
)

// Storage writes share-link artifacts under a local directory that the HTTP
// layer serves at a public prefix. Names come from the caller and are never
// reused, so an existing file is treated as a collision error rather than
// overwritten.
type Storage struct {
	dir          string
	publicPrefix string
	logger       *zlog.Zerolog
}

func NewStorage(dir, publicPrefix string, logger *zlog.Zerolog) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}

	return &Storage{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		logger:       logger,
	}, nil
}

// Dir returns the backing directory, for the router's file server.
func (s *Storage) Dir() string {
	return s.dir
}

// PublicPrefix returns the URL prefix artifacts are served under.
func (s *Storage) PublicPrefix() string {
	return s.publicPrefix
}

func (s *Storage) SaveArtifact(ctx context.Context, name string, data io.Reader, size int64, contentType string) (string, error) {
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: invalid artifact name %q", media.ErrStorageValidation, name)
	}

	path := filepath.Join(s.dir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: artifact %s already exists", media.ErrStorageError, name)
		}
		return "", fmt.Errorf("%w: %v", media.ErrStorageError, err)
	}

	written, err := io.Copy(file, data)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: failed to write %s: %v", media.ErrStorageError, name, err)
	}

	s.logger.Debug().Str("path", path).Int64("size", written).Msg("Artifact stored")
	return s.publicPrefix + "/" + name, nil
}

func (s *Storage) GetArtifact(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, media.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("%w: %v", media.ErrStorageError, err)
	}
	return file, nil
}
