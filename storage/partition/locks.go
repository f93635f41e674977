package partition

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/siamjuris/clauseindex/storage"
)

// pathLocks hands out one lock per partition path so that transactions on
// the same directory serialize while different partitions stay independent.
var pathLocks = struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}{locks: make(map[string]chan struct{})}

// lockForPath returns the semaphore channel for a partition path, creating
// it on first use. Paths are cleaned so different spellings of the same
// directory share one lock.
func lockForPath(path string) chan struct{} {
	key := filepath.Clean(path)

	pathLocks.mu.Lock()
	defer pathLocks.mu.Unlock()

	ch, ok := pathLocks.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		pathLocks.locks[key] = ch
	}
	return ch
}

// acquirePathLock takes the lock for path, waiting at most timeout.
// Returns storage.ErrStoreBusy on timeout and the context error on
// cancellation. The caller must release by receiving from the channel.
func acquirePathLock(ctx context.Context, path string, timeout time.Duration) (chan struct{}, error) {
	ch := lockForPath(path)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return ch, nil
	case <-timer.C:
		return nil, storage.ErrStoreBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
