package disk

import (
	"bytes"
	"context"
	"io"
	"testing"

	"image-publisher/internal/repository/media"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	zlog.Init()

	storage, err := NewStorage(t.TempDir(), "/files", &zlog.Logger)
	require.NoError(t, err)
	return storage
}

func TestSaveArtifactAndReadBack(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	content := []byte("jpeg-bytes")
	path, err := s.SaveArtifact(ctx, "abc.jpg", bytes.NewReader(content), int64(len(content)), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "/files/abc.jpg", path)

	reader, err := s.GetArtifact(ctx, "abc.jpg")
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestSaveArtifactNeverOverwrites(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.SaveArtifact(ctx, "dup.jpg", bytes.NewReader([]byte("one")), 3, "image/jpeg")
	require.NoError(t, err)

	_, err = s.SaveArtifact(ctx, "dup.jpg", bytes.NewReader([]byte("two")), 3, "image/jpeg")
	require.ErrorIs(t, err, media.ErrStorageError)

	// Original content is untouched.
	reader, err := s.GetArtifact(ctx, "dup.jpg")
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, []byte("one"), got)
}

func TestSaveArtifactRejectsPathTraversal(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.SaveArtifact(ctx, "../escape.jpg", bytes.NewReader(nil), 0, "image/jpeg")
	require.ErrorIs(t, err, media.ErrStorageValidation)

	_, err = s.SaveArtifact(ctx, "nested/name.jpg", bytes.NewReader(nil), 0, "image/jpeg")
	require.ErrorIs(t, err, media.ErrStorageValidation)
}

func TestGetArtifactNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetArtifact(context.Background(), "missing.jpg")
	require.ErrorIs(t, err, media.ErrArtifactNotFound)
}

func TestPublicPrefixNormalized(t *testing.T) {
	zlog.Init()

	storage, err := NewStorage(t.TempDir(), "files/", &zlog.Logger)
	require.NoError(t, err)
	require.Equal(t, "/files", storage.PublicPrefix())
}
