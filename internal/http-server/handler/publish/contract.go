package publish

import (
	"context"

	"image-publisher/internal/domain"
)

type publishPipeline interface {
	Publish(ctx context.Context, data []byte, contentType, publicBaseURL, message string) (*domain.PublishResult, error)
}
