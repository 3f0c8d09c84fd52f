package generator

import (
	"fmt"

	"image-publisher/internal/domain"
)

// ResizeError reports the preset that broke variant generation. Index is
// the 1-based position in the requested preset list.
type ResizeError struct {
	Index  int
	Preset domain.SizePreset
	Err    error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("failed to produce variant %d (%s): %v", e.Index, e.Preset, e.Err)
}

func (e *ResizeError) Unwrap() error {
	return e.Err
}
