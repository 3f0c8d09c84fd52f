package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"time"

	"image-publisher/internal/domain"
	"image-publisher/internal/usecase/generator/operations"

	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/errgroup"
)

// Generator applies every configured preset to a decoded source image and
// re-encodes each result as JPEG. A request either gets the complete variant
// list in preset order or an error; partial sets are never returned.
type Generator struct {
	resizer     *operations.Resizer
	watermarker *operations.Watermarker
	quality     int
	workers     int
	timeout     time.Duration
	logger      *zlog.Zerolog
}

type Options struct {
	Quality       int
	Workers       int
	ResizeTimeout time.Duration
	Watermarker   *operations.Watermarker
}

func NewGenerator(opts Options, logger *zlog.Zerolog) *Generator {
	quality := opts.Quality
	if quality <= 0 {
		quality = domain.DefaultJPEGQuality
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Generator{
		resizer:     operations.NewResizer(),
		watermarker: opts.Watermarker,
		quality:     quality,
		workers:     workers,
		timeout:     opts.ResizeTimeout,
		logger:      logger,
	}
}

func (g *Generator) Generate(ctx context.Context, src *domain.SourceImage, presets []domain.SizePreset) ([]domain.Variant, error) {
	if len(presets) == 0 {
		return nil, errors.New("no presets configured")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()

	var (
		variants []domain.Variant
		err      error
	)
	if g.workers > 1 {
		variants, err = g.generateParallel(ctx, src, presets)
	} else {
		variants, err = g.generateSequential(ctx, src, presets)
	}
	if err != nil {
		return nil, err
	}

	g.logger.Debug().
		Int("variants", len(variants)).
		Dur("duration", time.Since(start)).
		Msg("Variant generation completed")

	return variants, nil
}

func (g *Generator) generateSequential(ctx context.Context, src *domain.SourceImage, presets []domain.SizePreset) ([]domain.Variant, error) {
	variants := make([]domain.Variant, 0, len(presets))

	for i, preset := range presets {
		if err := ctx.Err(); err != nil {
			return nil, mapContextErr(err)
		}

		variant, err := g.render(src, i+1, preset)
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}

	return variants, nil
}

// generateParallel runs the per-preset work on a bounded pool and reassembles
// results into preset order. On failure the lowest failing ordinal wins, so
// callers see the same error as in the sequential path.
func (g *Generator) generateParallel(ctx context.Context, src *domain.SourceImage, presets []domain.SizePreset) ([]domain.Variant, error) {
	variants := make([]domain.Variant, len(presets))
	errs := make([]error, len(presets))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, preset := range presets {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return err
			}

			variant, err := g.render(src, i+1, preset)
			if err != nil {
				errs[i] = err
				return err
			}

			variants[i] = variant
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		for _, e := range errs {
			var resizeErr *ResizeError
			if errors.As(e, &resizeErr) {
				return nil, e
			}
		}
		return nil, mapContextErr(err)
	}

	return variants, nil
}

func (g *Generator) render(src *domain.SourceImage, ordinal int, preset domain.SizePreset) (domain.Variant, error) {
	resized, err := g.resizer.Resize(src.Image, preset)
	if err != nil {
		return domain.Variant{}, &ResizeError{Index: ordinal, Preset: preset, Err: err}
	}

	if g.watermarker != nil {
		resized, err = g.watermarker.Apply(resized)
		if err != nil {
			return domain.Variant{}, &ResizeError{Index: ordinal, Preset: preset, Err: err}
		}
	}

	rgb := operations.ToRGB(resized)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, rgb, &jpeg.Options{Quality: g.quality}); err != nil {
		return domain.Variant{}, &ResizeError{Index: ordinal, Preset: preset, Err: fmt.Errorf("failed to encode jpeg: %w", err)}
	}

	return domain.Variant{
		Preset: preset,
		Format: domain.FormatJPEG,
		Data:   buf.Bytes(),
	}, nil
}

func mapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("variant generation: %w", domain.ErrTimeout)
	}
	return err
}
