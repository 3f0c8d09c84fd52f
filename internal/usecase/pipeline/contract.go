package pipeline

import (
	"context"

	"image-publisher/internal/domain"

	"github.com/wb-go/wbf/retry"
)

type imageDecoder interface {
	Decode(data []byte, declaredContentType string) (*domain.SourceImage, error)
}

type variantGenerator interface {
	Generate(ctx context.Context, src *domain.SourceImage, presets []domain.SizePreset) ([]domain.Variant, error)
}

type eventProducer interface {
	Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error
}
