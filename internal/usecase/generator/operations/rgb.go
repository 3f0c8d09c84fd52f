package operations

import (
	"image"
	"image/color"
	"image/draw"
)

// ToRGB flattens any pixel layout to an opaque RGBA raster. Alpha is
// composited over white; grayscale and paletted images are expanded. JPEG
// cannot carry the source's original mode, so this runs before every encode.
func ToRGB(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Opaque() {
		return rgba
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}
