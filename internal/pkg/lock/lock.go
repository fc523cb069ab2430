package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Locker hands out short lived mutual exclusion over a key across service instances.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

type Unlock func(ctx context.Context) error

type redisLocker struct {
	rs *redsync.Redsync
}

func NewRedisLocker(client *goredislib.Client) Locker {
	return &redisLocker{rs: redsync.New(goredis.NewPool(client))}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Unlock, error) {
	mutex := l.rs.NewMutex("lock:"+key,
		redsync.WithExpiry(ttl),
		redsync.WithTries(20),
		redsync.WithRetryDelay(100*time.Millisecond),
	)

	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, err)
	}

	return func(ctx context.Context) error {
		_, err := mutex.UnlockContext(ctx)
		return err
	}, nil
}

type noopLocker struct{}

// NewNoopLocker returns a Locker that always succeeds, for single instance setups and tests.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) Acquire(context.Context, string, time.Duration) (Unlock, error) {
	return func(context.Context) error { return nil }, nil
}
