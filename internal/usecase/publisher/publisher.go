package publisher

import (
	"context"

	"image-publisher/internal/domain"
)

// Dispatcher is the single capability the request pipeline publishes
// through. The active implementation is chosen once at startup from
// configuration; the pipeline never knows which strategy is behind it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.PublishRequest) (*domain.PublishResult, error)
}
