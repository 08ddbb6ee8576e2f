package ports

import "context"

// LoginLockoutStore tracks failed login attempts per username.
type LoginLockoutStore interface {
	// IsLocked reports whether the username is locked and for how many more seconds.
	IsLocked(ctx context.Context, username string) (locked bool, retryAfterSeconds int, err error)
	RecordFailure(ctx context.Context, username string) error
	RecordSuccess(ctx context.Context, username string) error
}
