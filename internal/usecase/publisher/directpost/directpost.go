package directpost

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"image-publisher/internal/domain"
	"image-publisher/internal/usecase/publisher"

	"github.com/wb-go/wbf/zlog"
)

// Dispatcher uploads every variant to the social platform and creates one
// composite post referencing all of them. The platform's upload endpoint
// takes a filesystem path, so each variant is staged in a scratch file that
// is removed on every exit path.
type Dispatcher struct {
	client  socialClient
	message string
	timeout time.Duration
	logger  *zlog.Zerolog
}

func New(client socialClient, message string, timeout time.Duration, logger *zlog.Zerolog) *Dispatcher {
	if message == "" {
		message = domain.DefaultPostMessage
	}

	return &Dispatcher{
		client:  client,
		message: message,
		timeout: timeout,
		logger:  logger,
	}
}

// Dispatch authenticates once, uploads the variants in order and posts.
// An upload failure aborts the remaining uploads; a post never references a
// partial media list. Media uploaded before a post failure stays orphaned
// remotely: there is no rollback of successful remote uploads.
func (d *Dispatcher) Dispatch(ctx context.Context, req domain.PublishRequest) (*domain.PublishResult, error) {
	d.logger.Info().Msg("Starting social platform authentication")

	actx, cancel := d.callContext(ctx)
	screenName, err := d.client.Authenticate(actx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", mapTimeout(err))
	}

	d.logger.Info().Str("account", screenName).Msg("Authentication successful")

	mediaIDs := make([]string, 0, len(req.Variants))
	for i, variant := range req.Variants {
		mediaID, err := d.uploadVariant(ctx, i+1, variant)
		if err != nil {
			return nil, err
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	text := req.Message
	if text == "" {
		text = d.message
	}

	pctx, cancel := d.callContext(ctx)
	defer cancel()

	postID, err := d.client.CreatePost(pctx, text, mediaIDs)
	if err != nil {
		return nil, &publisher.PostError{Err: mapTimeout(err)}
	}

	d.logger.Info().
		Str("post_id", postID).
		Int("media_count", len(mediaIDs)).
		Msg("Post created")

	return &domain.PublishResult{
		Strategy: domain.StrategyDirectPost,
		PostID:   postID,
		MediaIDs: mediaIDs,
		Message:  fmt.Sprintf("Posted %d image variants as %s", len(mediaIDs), screenName),
	}, nil
}

func (d *Dispatcher) uploadVariant(ctx context.Context, ordinal int, variant domain.Variant) (string, error) {
	tmp, err := os.CreateTemp("", "variant-*.jpg")
	if err != nil {
		return "", &publisher.UploadError{Index: ordinal, Preset: variant.Preset, Err: fmt.Errorf("failed to create scratch file: %w", err)}
	}
	path := tmp.Name()
	defer func() {
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			d.logger.Error().Err(removeErr).Str("path", path).Msg("Failed to remove scratch file")
		}
	}()

	if _, err := tmp.Write(variant.Data); err != nil {
		tmp.Close()
		return "", &publisher.UploadError{Index: ordinal, Preset: variant.Preset, Err: fmt.Errorf("failed to write scratch file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return "", &publisher.UploadError{Index: ordinal, Preset: variant.Preset, Err: fmt.Errorf("failed to close scratch file: %w", err)}
	}

	d.logger.Debug().Int("variant", ordinal).Str("preset", variant.Preset.String()).Str("path", path).Msg("Uploading variant")

	uctx, cancel := d.callContext(ctx)
	defer cancel()

	mediaID, err := d.client.UploadMedia(uctx, path)
	if err != nil {
		return "", &publisher.UploadError{Index: ordinal, Preset: variant.Preset, Err: mapTimeout(err)}
	}

	d.logger.Info().Int("variant", ordinal).Str("media_id", mediaID).Msg("Variant uploaded")
	return mediaID, nil
}

func (d *Dispatcher) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

func mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	return err
}
