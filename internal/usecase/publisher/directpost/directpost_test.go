package directpost

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"image-publisher/internal/domain"
	"image-publisher/internal/usecase/publisher"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

type fakeSocialClient struct {
	authErr   error
	failAt    int // 1-based ordinal whose upload fails; 0 means never
	postErr   error
	authCalls int
	postCalls int

	uploadPaths  []string
	pathsExisted []bool
	postText     string
	postMediaIDs []string
}

func (f *fakeSocialClient) Authenticate(ctx context.Context) (string, error) {
	f.authCalls++
	if f.authErr != nil {
		return "", f.authErr
	}
	return "testaccount", nil
}

func (f *fakeSocialClient) UploadMedia(ctx context.Context, path string) (string, error) {
	f.uploadPaths = append(f.uploadPaths, path)

	_, statErr := os.Stat(path)
	f.pathsExisted = append(f.pathsExisted, statErr == nil)

	if f.failAt != 0 && len(f.uploadPaths) == f.failAt {
		return "", errors.New("upload rejected")
	}
	return fmt.Sprintf("media-%d", len(f.uploadPaths)), nil
}

func (f *fakeSocialClient) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	f.postCalls++
	if f.postErr != nil {
		return "", f.postErr
	}
	f.postText = text
	f.postMediaIDs = mediaIDs
	return "post-123", nil
}

func testVariants(n int) []domain.Variant {
	presets := []domain.SizePreset{
		{Width: 300, Height: 250},
		{Width: 728, Height: 90},
		{Width: 160, Height: 600},
		{Width: 300, Height: 600},
	}

	variants := make([]domain.Variant, 0, n)
	for i := 0; i < n; i++ {
		variants = append(variants, domain.Variant{
			Preset: presets[i%len(presets)],
			Format: domain.FormatJPEG,
			Data:   []byte(fmt.Sprintf("jpeg-bytes-%d", i)),
		})
	}
	return variants
}

func newTestDispatcher(client *fakeSocialClient) *Dispatcher {
	zlog.Init()
	return New(client, "Resized images uploaded", 5*time.Second, &zlog.Logger)
}

func TestDispatchSuccess(t *testing.T) {
	client := &fakeSocialClient{}
	d := newTestDispatcher(client)

	result, err := d.Dispatch(context.Background(), domain.PublishRequest{Variants: testVariants(4)})
	require.NoError(t, err)

	require.Equal(t, 1, client.authCalls)
	require.Equal(t, domain.StrategyDirectPost, result.Strategy)
	require.Equal(t, "post-123", result.PostID)
	require.Equal(t, []string{"media-1", "media-2", "media-3", "media-4"}, result.MediaIDs)
	require.Equal(t, result.MediaIDs, client.postMediaIDs)
	require.Equal(t, "Resized images uploaded", client.postText)

	// Every scratch file existed during its upload and is gone afterwards.
	require.Len(t, client.uploadPaths, 4)
	for i, path := range client.uploadPaths {
		require.True(t, client.pathsExisted[i])
		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err))
	}
}

func TestDispatchRequestMessageOverridesDefault(t *testing.T) {
	client := &fakeSocialClient{}
	d := newTestDispatcher(client)

	_, err := d.Dispatch(context.Background(), domain.PublishRequest{
		Variants: testVariants(1),
		Message:  "custom text",
	})
	require.NoError(t, err)
	require.Equal(t, "custom text", client.postText)
}

func TestDispatchUploadFailureAbortsRun(t *testing.T) {
	client := &fakeSocialClient{failAt: 3}
	d := newTestDispatcher(client)

	result, err := d.Dispatch(context.Background(), domain.PublishRequest{Variants: testVariants(4)})
	require.Nil(t, result)

	var uploadErr *publisher.UploadError
	require.ErrorAs(t, err, &uploadErr)
	require.Equal(t, 3, uploadErr.Index)

	// The fourth upload was never attempted and no post was created.
	require.Len(t, client.uploadPaths, 3)
	require.Equal(t, 0, client.postCalls)

	// The failed variant's scratch file is gone too.
	_, statErr := os.Stat(client.uploadPaths[2])
	require.True(t, os.IsNotExist(statErr))
}

func TestDispatchPostFailure(t *testing.T) {
	client := &fakeSocialClient{postErr: errors.New("duplicate status")}
	d := newTestDispatcher(client)

	result, err := d.Dispatch(context.Background(), domain.PublishRequest{Variants: testVariants(2)})
	require.Nil(t, result)

	var postErr *publisher.PostError
	require.ErrorAs(t, err, &postErr)

	// Uploads completed before the failure; their scratch files are cleaned.
	require.Len(t, client.uploadPaths, 2)
	for _, path := range client.uploadPaths {
		_, statErr := os.Stat(path)
		require.True(t, os.IsNotExist(statErr))
	}
}

func TestDispatchAuthFailure(t *testing.T) {
	client := &fakeSocialClient{authErr: errors.New("bad credentials")}
	d := newTestDispatcher(client)

	_, err := d.Dispatch(context.Background(), domain.PublishRequest{Variants: testVariants(1)})
	require.Error(t, err)
	require.Empty(t, client.uploadPaths)
	require.Equal(t, 0, client.postCalls)
}

func TestDispatchMapsDeadlineToTimeout(t *testing.T) {
	client := &fakeSocialClient{authErr: context.DeadlineExceeded}
	d := newTestDispatcher(client)

	_, err := d.Dispatch(context.Background(), domain.PublishRequest{Variants: testVariants(1)})
	require.ErrorIs(t, err, domain.ErrTimeout)
}
