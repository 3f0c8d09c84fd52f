package operations

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

type WatermarkPosition string

const (
	WatermarkTopLeft     WatermarkPosition = "top-left"
	WatermarkTopRight    WatermarkPosition = "top-right"
	WatermarkBottomLeft  WatermarkPosition = "bottom-left"
	WatermarkBottomRight WatermarkPosition = "bottom-right"
	WatermarkCenter      WatermarkPosition = "center"
)

// Watermarker draws a short attribution line onto a variant before it is
// encoded. Font size tracks the variant height so the text stays readable
// on the skyscraper presets without dominating the leaderboard ones.
type Watermarker struct {
	font     *truetype.Font
	text     string
	position WatermarkPosition
	opacity  float64
}

func NewWatermarker(text, position string, opacity float64) (*Watermarker, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}

	if opacity <= 0 || opacity > 1 {
		opacity = 0.5
	}

	return &Watermarker{
		font:     f,
		text:     text,
		position: WatermarkPosition(position),
		opacity:  opacity,
	}, nil
}

func (w *Watermarker) Apply(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	fontSize := float64(bounds.Dy()) / 16
	if fontSize < 10 {
		fontSize = 10
	}

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(w.font)
	c.SetFontSize(fontSize)
	c.SetClip(result.Bounds())
	c.SetDst(result)
	c.SetSrc(image.NewUniform(color.RGBA{255, 255, 255, uint8(255 * w.opacity)}))
	c.SetHinting(font.HintingFull)

	// Rough advance estimate; exact metrics are not worth a second pass.
	textWidth := int(float64(len(w.text)) * fontSize * 0.6)
	margin := bounds.Dy() / 32
	if margin < 4 {
		margin = 4
	}

	var pt fixed.Point26_6
	switch w.position {
	case WatermarkTopLeft:
		pt = freetype.Pt(margin, margin+int(fontSize))
	case WatermarkTopRight:
		pt = freetype.Pt(bounds.Dx()-textWidth-margin, margin+int(fontSize))
	case WatermarkBottomLeft:
		pt = freetype.Pt(margin, bounds.Dy()-margin)
	case WatermarkCenter:
		pt = freetype.Pt((bounds.Dx()-textWidth)/2, (bounds.Dy()+int(fontSize))/2)
	default:
		pt = freetype.Pt(bounds.Dx()-textWidth-margin, bounds.Dy()-margin)
	}

	if _, err := c.DrawString(w.text, pt); err != nil {
		return nil, fmt.Errorf("failed to draw watermark text: %w", err)
	}

	return result, nil
}
