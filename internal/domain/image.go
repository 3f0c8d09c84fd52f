package domain

import (
	"bytes"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// SourceImage is the decoded upload. It is created once per request and
// never mutated after decode.
type SourceImage struct {
	Image     image.Image
	Format    ImageFormat
	Width     int
	Height    int
	ColorMode ColorMode
}

// SizePreset is a fixed target size in pixels. Presets are value objects
// drawn from configuration, not owned by any request.
type SizePreset struct {
	Width  int
	Height int
}

func (p SizePreset) String() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// ParsePreset parses a "WxH" string such as "300x250".
func ParsePreset(s string) (SizePreset, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "x", 2)
	if len(parts) != 2 {
		return SizePreset{}, fmt.Errorf("invalid preset %q: expected WxH", s)
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return SizePreset{}, fmt.Errorf("invalid preset width %q: %w", parts[0], err)
	}

	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return SizePreset{}, fmt.Errorf("invalid preset height %q: %w", parts[1], err)
	}

	if width <= 0 || height <= 0 {
		return SizePreset{}, fmt.Errorf("invalid preset %q: dimensions must be positive", s)
	}

	return SizePreset{Width: width, Height: height}, nil
}

// ParsePresets parses an ordered list of "WxH" strings, preserving order.
func ParsePresets(specs []string) ([]SizePreset, error) {
	presets := make([]SizePreset, 0, len(specs))
	for _, s := range specs {
		preset, err := ParsePreset(s)
		if err != nil {
			return nil, err
		}
		presets = append(presets, preset)
	}
	return presets, nil
}

// Variant is one re-encoded rendition of a SourceImage. A variant list is
// owned exclusively by the request that produced it.
type Variant struct {
	Preset SizePreset
	Format ImageFormat
	Data   []byte
}

// Reader returns the encoded bytes positioned at the start.
func (v Variant) Reader() *bytes.Reader {
	return bytes.NewReader(v.Data)
}

func (v Variant) Size() int64 {
	return int64(len(v.Data))
}

type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

type ColorMode string

const (
	ColorModeRGB      ColorMode = "rgb"
	ColorModeRGBA     ColorMode = "rgba"
	ColorModeGray     ColorMode = "gray"
	ColorModePaletted ColorMode = "paletted"
	ColorModeYCbCr    ColorMode = "ycbcr"
	ColorModeOther    ColorMode = "other"
)

// ColorModeOf reports the pixel layout of a decoded image.
func ColorModeOf(img image.Image) ColorMode {
	switch img.(type) {
	case *image.YCbCr:
		return ColorModeYCbCr
	case *image.RGBA, *image.RGBA64, *image.NRGBA, *image.NRGBA64:
		return ColorModeRGBA
	case *image.Gray, *image.Gray16:
		return ColorModeGray
	case *image.Paletted:
		return ColorModePaletted
	default:
		return ColorModeOther
	}
}

const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

const (
	DefaultMaxUploadSize = 32 << 20
	DefaultJPEGQuality   = 85
)
