package operations

import (
	"fmt"
	"image"

	"image-publisher/internal/domain"

	"github.com/disintegration/imaging"
)

// Resizer resamples an image to an exact target size. Lanczos is a hard
// requirement here: banner sizes are small and the cheaper filters produce
// visible artifacts.
type Resizer struct{}

func NewResizer() *Resizer {
	return &Resizer{}
}

func (r *Resizer) Resize(img image.Image, preset domain.SizePreset) (image.Image, error) {
	if preset.Width <= 0 || preset.Height <= 0 {
		return nil, fmt.Errorf("preset %s: dimensions must be positive", preset)
	}

	return imaging.Resize(img, preset.Width, preset.Height, imaging.Lanczos), nil
}
