package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another loan creation holds the customer lock.
var ErrLockHeld = errors.New("customer lock already held")

// releaseScript deletes the key only when the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements port.CustomerLocker on Redis. Each lock holds a random
// token so an expired lock is never released by a stale owner.
type Locker struct {
	client *redis.Client
	prefix string
}

// NewLocker creates a locker using the given Redis client.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client, prefix: "credit:lock:customer:"}
}

// Lock acquires the per-customer lock, failing fast when it is held.
func (l *Locker) Lock(ctx context.Context, customerID int64, ttl time.Duration) (func(context.Context) error, error) {
	key := fmt.Sprintf("%s%d", l.prefix, customerID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}
	return release, nil
}
