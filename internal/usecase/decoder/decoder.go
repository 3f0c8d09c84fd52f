package decoder

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"image-publisher/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

// Decoder turns uploaded bytes into a validated in-memory image. The
// declared content type is checked against the allow-list before any pixel
// data is read.
type Decoder struct {
	logger *zlog.Zerolog
}

func NewDecoder(logger *zlog.Zerolog) *Decoder {
	return &Decoder{logger: logger}
}

func (d *Decoder) Decode(data []byte, declaredContentType string) (*domain.SourceImage, error) {
	if !isAllowedContentType(declaredContentType) {
		d.logger.Warn().Str("content_type", declaredContentType).Msg("Rejected unsupported media type")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, declaredContentType)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		d.logger.Warn().Err(err).Str("content_type", declaredContentType).Msg("Failed to decode image")
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImageData)
	}

	src := &domain.SourceImage{
		Image:     img,
		Format:    domain.ImageFormat(format),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		ColorMode: domain.ColorModeOf(img),
	}

	d.logger.Debug().
		Str("format", format).
		Int("width", src.Width).
		Int("height", src.Height).
		Str("color_mode", string(src.ColorMode)).
		Msg("Image decoded")

	return src, nil
}

func isAllowedContentType(contentType string) bool {
	switch contentType {
	case domain.ContentTypeJPEG, domain.ContentTypePNG:
		return true
	default:
		return false
	}
}
