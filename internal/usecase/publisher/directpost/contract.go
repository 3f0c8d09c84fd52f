package directpost

import "context"

type socialClient interface {
	Authenticate(ctx context.Context) (string, error)
	UploadMedia(ctx context.Context, path string) (string, error)
	CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error)
}
