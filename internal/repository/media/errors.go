package media

import "errors"

var (
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrStorageError      = errors.New("storage error")
	ErrStorageValidation = errors.New("storage validation failed")
)
