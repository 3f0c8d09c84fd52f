package decoder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidImageData     = errors.New("invalid image data")
)
