package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// NotewaveCache is a read-through cache plus the pub/sub channel used to fan
// out sync events. Callers treat every cache failure as non-fatal: a read
// error degrades to a miss, a write error to a no-op.
type NotewaveCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	ScanPrefix(ctx context.Context, prefix string) ([]string, error)

	Publish(ctx context.Context, channel string, message []byte) error
	Subscribe(ctx context.Context, channel string, handler func(message []byte)) error
}
