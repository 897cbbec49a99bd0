package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates session access across replicas. A host
// running multiple engine instances against a shared store acquires the
// session lock before driving a turn loop, so no two drivers mutate the
// same session concurrently.
type DistributedLocker interface {
	// Lock acquires a lock for the given key (typically a session ID).
	// It blocks until acquired or ctx is canceled. The returned UnlockFunc
	// MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
