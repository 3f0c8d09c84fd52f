package domain

import "errors"

// ErrTimeout marks a resize or remote call that exceeded its configured
// deadline. Callers wrap it with the failing operation.
var ErrTimeout = errors.New("operation timed out")
