package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes turns of one conversation across replicas
// sharing a store. The in-process mutex of session.Manager covers a single
// replica only.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx is done. The lock lapses after ttl
	// if the holder dies; the returned UnlockFunc must be called otherwise and
	// must not release a lock that has since passed to another holder.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
