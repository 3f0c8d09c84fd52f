package broker

import (
	"context"

	"github.com/wb-go/wbf/retry"
)

// Producer publishes audit events. Delivery failures are logged by callers
// and never propagate to the request.
type Producer interface {
	Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}
