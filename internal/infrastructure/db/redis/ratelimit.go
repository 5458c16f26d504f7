package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowStore implements ratelimit.Store on a shared Redis counter so that
// multiple service instances enforce one combined window per client.
// Key format: rl:<route_class>:<client_key>
type WindowStore struct {
	client *redis.Client
}

// NewWindowStore creates a WindowStore wrapping the given Redis client.
func NewWindowStore(client *redis.Client) *WindowStore {
	return &WindowStore{client: client}
}

// Incr increments the key's counter and returns the counter value plus the
// time left in the window. A fresh key gets the window duration as its TTL;
// the TTL is never extended afterwards, which is what makes the window fixed
// rather than sliding.
func (s *WindowStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := "rl:" + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// Key had no expiry: it was just created by this INCR.
		if err := s.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("rate limit expire: %w", err)
		}
		remaining = window
	}

	return incr.Val(), remaining, nil
}
