//go:build unit

package keylock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"room-allocation-engine/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockExcludesSameKey(t *testing.T) {
	l := keylock.New()
	var inside, maxInside atomic.Int32

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "room:101")
			require.NoError(t, err)
			defer unlock()

			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Zero(t, l.Held("room:101"), "entries are dropped once released")
}

func TestLockDifferentKeysRunInParallel(t *testing.T) {
	l := keylock.New()
	unlockA, err := l.Lock(context.Background(), "room:101")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, "room:102")
	require.NoError(t, err)
	unlockB()
}

func TestLockOverlappingSetsDoNotDeadlock(t *testing.T) {
	l := keylock.New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := range 50 {
		keys := []string{"room:101", "room:102", "room:103"}
		if i%2 == 1 {
			keys = []string{"room:103", "room:101", "room:102", "room:101"}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, keys...)
			if !assert.NoError(t, err) {
				return
			}
			unlock()
		}()
	}
	wg.Wait()
	require.NoError(t, ctx.Err())
}

func TestLockHonoursContext(t *testing.T) {
	l := keylock.New()
	unlock, err := l.Lock(context.Background(), "room:101")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "room:100", "room:101")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, l.Held("room:100"), "partially acquired keys are released")
	assert.Equal(t, 1, l.Held("room:101"))

	unlock()
	unlock()
	assert.Zero(t, l.Held("room:101"))
}
