package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/project-registry/internal/core/ports"
)

// LoginLockout counts failed logins in Redis so every instance sees the
// same lock state.
// Key format: login_failures:<username>
type LoginLockout struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewLoginLockout creates a LoginLockout wrapping the given Redis client.
// maxAttempts <= 0 disables locking.
func NewLoginLockout(client *redis.Client, maxAttempts int, window time.Duration) *LoginLockout {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLockout{client: client, max: maxAttempts, window: window}
}

// IsLocked reports whether username has reached the failure limit and how
// many seconds remain on the lock.
func (l *LoginLockout) IsLocked(ctx context.Context, username string) (bool, int, error) {
	if l.max <= 0 {
		return false, 0, nil
	}

	n, err := l.client.Get(ctx, l.key(username)).Int()
	if errors.Is(err, redis.Nil) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("lockout check: %w", err)
	}
	if n < l.max {
		return false, 0, nil
	}

	ttl, err := l.client.TTL(ctx, l.key(username)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("lockout ttl: %w", err)
	}
	secs := int((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return true, secs, nil
}

// RecordFailure increments the failure counter. The first failure opens the
// window; reaching the limit restarts it so the lock lasts a full window.
func (l *LoginLockout) RecordFailure(ctx context.Context, username string) error {
	if l.max <= 0 {
		return nil
	}

	key := l.key(username)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("lockout incr: %w", err)
	}
	if n == 1 || n >= int64(l.max) {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("lockout expire: %w", err)
		}
	}
	return nil
}

// RecordSuccess clears the failure counter.
func (l *LoginLockout) RecordSuccess(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *LoginLockout) key(username string) string {
	return fmt.Sprintf("login_failures:%s", username)
}

var _ ports.LoginLockoutStore = (*LoginLockout)(nil)
