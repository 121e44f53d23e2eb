// Package limiter provides a small FIFO counting semaphore used to bound
// the number of concurrent block-resolution requests against the server.
package limiter

import (
	"context"
	"sync"
)

// DefaultMaxConcurrent bounds lazy block resolution and bulk table-contents
// fetches. The server tolerates a handful of interpret requests at once; more
// just queues behind its own workers.
const DefaultMaxConcurrent = 3

// Limiter admits at most N tasks at a time, in arrival order.
type Limiter struct {
	mu      sync.Mutex
	max     int
	active  int
	waiters []chan struct{}
}

// New returns a Limiter admitting up to max concurrent tasks. max < 1 is
// treated as 1.
func New(max int) *Limiter {
	if max < 1 {
		max = 1
	}
	return &Limiter{max: max}
}

// Acquire blocks until a slot is free or ctx is done. Admission is FIFO:
// earlier callers get slots before later ones.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	if l.active < l.max && len(l.waiters) == 0 {
		l.active++
		l.mu.Unlock()
		return nil
	}
	ready := make(chan struct{})
	l.waiters = append(l.waiters, ready)
	l.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		for i, w := range l.waiters {
			if w == ready {
				l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
				l.mu.Unlock()
				return ctx.Err()
			}
		}
		l.mu.Unlock()
		// Already admitted concurrently with cancellation; hand the slot back.
		l.Release()
		return ctx.Err()
	}
}

// Release frees a slot and wakes the longest-waiting caller, if any.
func (l *Limiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.waiters) > 0 {
		next := l.waiters[0]
		l.waiters = l.waiters[1:]
		close(next)
		return
	}
	if l.active > 0 {
		l.active--
	}
}

// Use runs fn under a slot. It is the convenience form every caller should
// prefer; Acquire/Release exist for tests and unusual control flow.
func (l *Limiter) Use(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
