package publisher

import (
	"fmt"

	"image-publisher/internal/domain"
)

// UploadError identifies the variant whose media upload failed. Index is
// the 1-based position in the dispatched variant list; uploads after it
// were never attempted.
type UploadError struct {
	Index  int
	Preset domain.SizePreset
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload variant %d (%s): %v", e.Index, e.Preset, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PostError reports a failed composite post. Media uploaded before the
// failure remains orphaned on the remote side.
type PostError struct {
	Err error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("failed to create post: %v", e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// StorageWriteError reports a failed artifact write in the share-link
// strategy.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to store artifact %s: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}
