package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a blocked writer polls the lock file.
const lockRetry = 10 * time.Millisecond

// fileLocks holds one mutex per absolute store path.
var fileLocks sync.Map

// lockPath is the sidecar file other processes lock before touching path.
func lockPath(path string) string { return path + ".lock" }

// acquire serializes writers of path: the mutex orders goroutines of this
// process, the flock on lockPath orders processes. unlock releases both.
func acquire(ctx context.Context, path string) (unlock func(), err error) {
	v, _ := fileLocks.LoadOrStore(path, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()

	fl := flock.New(lockPath(path))
	locked, err := fl.TryLockContext(ctx, lockRetry)
	if err == nil && !locked {
		err = ctx.Err()
	}
	if err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	return func() {
		_ = fl.Unlock()
		mu.Unlock()
	}, nil
}
