package sharelink

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"image-publisher/internal/domain"
	"image-publisher/internal/usecase/publisher"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

const defaultIntentBaseURL = "https://twitter.com/intent/tweet"

// Dispatcher stores the single variant under a collision-free name and
// builds a share-intent URL for it. Nothing is posted remotely; the user
// clicks the intent link themselves.
type Dispatcher struct {
	storage       artifactStore
	message       string
	intentBaseURL string
	logger        *zlog.Zerolog
}

func New(storage artifactStore, message string, logger *zlog.Zerolog) *Dispatcher {
	if message == "" {
		message = domain.DefaultPostMessage
	}

	return &Dispatcher{
		storage:       storage,
		message:       message,
		intentBaseURL: defaultIntentBaseURL,
		logger:        logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, req domain.PublishRequest) (*domain.PublishResult, error) {
	if len(req.Variants) != 1 {
		return nil, fmt.Errorf("share-link dispatch expects exactly one variant, got %d", len(req.Variants))
	}

	variant := req.Variants[0]
	name := uuid.New().String() + ".jpg"

	publicPath, err := d.storage.SaveArtifact(ctx, name, variant.Reader(), variant.Size(), domain.ContentTypeJPEG)
	if err != nil {
		return nil, &publisher.StorageWriteError{Key: name, Err: err}
	}

	artifactURL := strings.TrimRight(req.PublicBaseURL, "/") + publicPath

	text := req.Message
	if text == "" {
		text = d.message
	}

	intentURL := d.buildIntentURL(text, artifactURL)

	d.logger.Info().
		Str("artifact", name).
		Str("artifact_url", artifactURL).
		Msg("Variant stored for sharing")

	return &domain.PublishResult{
		Strategy:    domain.StrategyShareLink,
		ArtifactURL: artifactURL,
		IntentURL:   intentURL,
		Message:     "Image stored; use the intent link to share it",
	}, nil
}

// buildIntentURL follows the tweet-intent query contract: the text parameter
// is encoded space-to-plus only, the url parameter is fully escaped.
func (d *Dispatcher) buildIntentURL(text, artifactURL string) string {
	return fmt.Sprintf("%s?text=%s&url=%s",
		d.intentBaseURL,
		strings.ReplaceAll(text, " ", "+"),
		url.QueryEscape(artifactURL),
	)
}
