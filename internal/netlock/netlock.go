// internal/netlock/netlock.go
//
// Per-network advisory locks for the mutation protocol.
//
// Context
// -------
// Every mutation reads a network's full entry set, validates against it,
// and writes — so mutations against the same network must be mutually
// exclusive.  The registry keeps one weighted(1) semaphore per network id
// in a sync.Map, created on first use and never evicted (a lock is a few
// words; networks number in the hundreds).
//
// Acquisition uses a bounded wait: callers that cannot get the lock within
// the window receive ErrBusy instead of queueing forever.  Once held, the
// lock is released only by the returned func — mutations are not
// cancellable mid-write.
package netlock

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when the lock cannot be acquired within the wait
// window.  Callers surface it as a retryable conflict, never a deadlock.
var ErrBusy = errors.New("netlock: network busy")

// Registry hands out per-network locks.
type Registry struct {
	m sync.Map // network id → *semaphore.Weighted
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

func (r *Registry) sem(networkID uint64) *semaphore.Weighted {
	if v, ok := r.m.Load(networkID); ok {
		return v.(*semaphore.Weighted)
	}
	v, _ := r.m.LoadOrStore(networkID, semaphore.NewWeighted(1))
	return v.(*semaphore.Weighted)
}

// Acquire takes the lock for networkID, waiting at most wait.  On success
// it returns the release func; on timeout it returns ErrBusy.  The parent
// ctx still applies, so a caller that is already past its deadline fails
// immediately.
func (r *Registry) Acquire(ctx context.Context, networkID uint64, wait time.Duration) (func(), error) {
	sem := r.sem(networkID)

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	if err := sem.Acquire(waitCtx, 1); err != nil {
		return nil, ErrBusy
	}
	return func() { sem.Release(1) }, nil
}
