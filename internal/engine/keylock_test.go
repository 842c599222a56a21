package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLock_MutualExclusion(t *testing.T) {
	l := NewKeyedLock(time.Second)
	ctx := context.Background()

	var counter, max int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.Acquire(ctx, "k"))
			defer l.Release("k")

			mu.Lock()
			counter++
			if counter > max {
				max = counter
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, max, "more than one holder inside the critical section")
}

func TestKeyedLock_TimeoutReturnsBusy(t *testing.T) {
	l := NewKeyedLock(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx, "k"))
	err := l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrBusy)

	l.Release("k")
	// Free again after release.
	require.NoError(t, l.Acquire(ctx, "k"))
	l.Release("k")
}

func TestKeyedLock_IndependentKeys(t *testing.T) {
	l := NewKeyedLock(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx, "a"))
	// A held lock on "a" must not delay "b".
	require.NoError(t, l.Acquire(ctx, "b"))
	l.Release("a")
	l.Release("b")
}

func TestKeyedLock_ContextCancellation(t *testing.T) {
	l := NewKeyedLock(time.Minute)
	require.NoError(t, l.Acquire(context.Background(), "k"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	l.Release("k")
}

func TestKeyedLock_SlotsDoNotLeak(t *testing.T) {
	l := NewKeyedLock(time.Second)
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Acquire(ctx, "k"))
		l.Release("k")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.slots)
}
