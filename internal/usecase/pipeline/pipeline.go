package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"image-publisher/internal/domain"
	"image-publisher/internal/usecase/publisher"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Pipeline runs one upload through decode, variant generation and dispatch.
// Each request owns its data exclusively; nothing here outlives the call.
type Pipeline struct {
	decoder    imageDecoder
	generator  variantGenerator
	dispatcher publisher.Dispatcher
	producer   eventProducer
	presets    []domain.SizePreset
	retries    retry.Strategy
	logger     *zlog.Zerolog
}

func NewPipeline(
	decoder imageDecoder,
	generator variantGenerator,
	dispatcher publisher.Dispatcher,
	producer eventProducer,
	presets []domain.SizePreset,
	retries retry.Strategy,
	logger *zlog.Zerolog,
) *Pipeline {
	return &Pipeline{
		decoder:    decoder,
		generator:  generator,
		dispatcher: dispatcher,
		producer:   producer,
		presets:    presets,
		retries:    retries,
		logger:     logger,
	}
}

// Publish decodes the upload, produces the full variant set and hands it to
// the active dispatcher. The dispatcher only ever sees a complete set.
func (p *Pipeline) Publish(ctx context.Context, data []byte, contentType, publicBaseURL, message string) (*domain.PublishResult, error) {
	src, err := p.decoder.Decode(data, contentType)
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Str("format", string(src.Format)).
		Int("width", src.Width).
		Int("height", src.Height).
		Int("presets", len(p.presets)).
		Msg("Image accepted for publishing")

	variants, err := p.generator.Generate(ctx, src, p.presets)
	if err != nil {
		return nil, err
	}

	result, err := p.dispatcher.Dispatch(ctx, domain.PublishRequest{
		Variants:      variants,
		PublicBaseURL: publicBaseURL,
		Message:       message,
	})
	if err != nil {
		return nil, err
	}

	p.emitEvent(ctx, result)

	p.logger.Info().
		Str("strategy", string(result.Strategy)).
		Str("post_id", result.PostID).
		Str("artifact_url", result.ArtifactURL).
		Msg("Publish completed")

	return result, nil
}

// emitEvent sends a best-effort audit record; a broker failure never fails
// the request.
func (p *Pipeline) emitEvent(ctx context.Context, result *domain.PublishResult) {
	if p.producer == nil {
		return
	}

	presets := make([]string, 0, len(p.presets))
	for _, preset := range p.presets {
		presets = append(presets, preset.String())
	}

	event := domain.PublishEvent{
		ID:          uuid.New().String(),
		Strategy:    result.Strategy,
		PostID:      result.PostID,
		ArtifactURL: result.ArtifactURL,
		Presets:     presets,
		CompletedAt: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to marshal publish event")
		return
	}

	if err := p.producer.Send(ctx, p.retries, []byte(event.ID), value); err != nil {
		p.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to send publish event")
	}
}
