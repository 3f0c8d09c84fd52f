package sharelink

import (
	"context"
	"io"
)

type artifactStore interface {
	SaveArtifact(ctx context.Context, name string, data io.Reader, size int64, contentType string) (string, error)
}
