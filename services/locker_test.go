package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "tournament:t1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, l.held())
}

func TestLocalLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocalLocker()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlockA, err := l.Lock(ctx, "a")
	require.NoError(t, err)
	unlockB, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, l.held())

	unlockA()
	unlockB()
	assert.Zero(t, l.held())
}

func TestLocalLocker_TimesOutWhileHeld(t *testing.T) {
	l := NewLocalLocker()
	unlock, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a")
	assert.ErrorIs(t, err, ErrTournamentBusy)

	unlock()
	unlock()
	assert.Zero(t, l.held())

	again, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	again()
}

func newTestRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := newRedisLocker(client, time.Minute, nil)
	l.retry = time.Millisecond
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	l, mr := newTestRedisLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "tournament:t1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("brackets:lock:tournament:t1"))
	assert.Equal(t, time.Minute, mr.TTL("brackets:lock:tournament:t1"))

	busyCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(busyCtx, "tournament:t1")
	assert.ErrorIs(t, err, ErrTournamentBusy)

	unlock()
	assert.False(t, mr.Exists("brackets:lock:tournament:t1"))

	again, err := l.Lock(ctx, "tournament:t1")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_WaiterGetsLockAfterRelease(t *testing.T) {
	l, _ := newTestRedisLocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	unlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	acquired := make(chan error, 1)
	go func() {
		u, err := l.Lock(ctx, "k")
		if err == nil {
			u()
		}
		acquired <- err
	}()

	time.Sleep(10 * time.Millisecond)
	unlock()
	assert.NoError(t, <-acquired)
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	l, mr := newTestRedisLocker(t)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	// The lock expired and another instance took it over.
	require.NoError(t, mr.Set("brackets:lock:k", "someone-else"))
	unlock()

	got, err := mr.Get("brackets:lock:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
