package engine

import (
	"context"
	"sync"
	"time"
)

// KeyedLock serializes work per ledger key while leaving unrelated keys free to
// proceed. Acquire waits at most the configured duration before failing with
// ErrBusy so a contended admit surfaces as a retryable error instead of hanging.
type KeyedLock struct {
	mu    sync.Mutex
	wait  time.Duration
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{} // capacity 1; holding the token means holding the lock
	refs int
}

// NewKeyedLock creates a KeyedLock with the given maximum wait per acquisition.
func NewKeyedLock(wait time.Duration) *KeyedLock {
	return &KeyedLock{
		wait:  wait,
		slots: make(map[string]*lockSlot),
	}
}

// Acquire takes the lock for key, waiting up to the configured duration.
// Returns ErrBusy on timeout and the context error on cancellation.
func (l *KeyedLock) Acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-timer.C:
		l.drop(key, s)
		return ErrBusy
	case <-ctx.Done():
		l.drop(key, s)
		return ctx.Err()
	}
}

// Release frees the lock for key. Must be called exactly once per successful Acquire.
func (l *KeyedLock) Release(key string) {
	l.mu.Lock()
	s, ok := l.slots[key]
	l.mu.Unlock()
	if !ok {
		return
	}
	<-s.ch
	l.drop(key, s)
}

// drop decrements the slot refcount and removes the slot once nobody references it,
// so the map does not grow with every key ever admitted.
func (l *KeyedLock) drop(key string, s *lockSlot) {
	l.mu.Lock()
	s.refs--
	if s.refs <= 0 {
		delete(l.slots, key)
	}
	l.mu.Unlock()
}
