package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// Locker serializes operations on one tournament. Lock blocks until the key
// is free or ctx is done; the returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type keySlot struct {
	ch   chan struct{}
	refs int
}

// LocalLocker is a keyed mutex for a single process.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*keySlot
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*keySlot)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &keySlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-slot.ch
				l.release(key, slot)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, slot)
		return nil, fmt.Errorf("%w: %v", ErrTournamentBusy, ctx.Err())
	}
}

func (l *LocalLocker) release(key string, slot *keySlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

// held reports the number of keys with a holder or waiter.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker shares tournament locks between instances with SET NX PX.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	logger *slog.Logger
}

// NewRedisLocker connects to Redis and verifies the connection. ttl bounds
// how long a crashed holder can block a tournament.
func NewRedisLocker(addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return newRedisLocker(client, ttl, logger), nil
}

func newRedisLocker(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client: client,
		prefix: "brackets:lock:",
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		logger: logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrTournamentBusy, ctxErr)
			}
			return nil, fmt.Errorf("failed to acquire redis lock %s: %w", redisKey, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", ErrTournamentBusy, ctx.Err())
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				l.logger.Error("failed to release redis lock", slog.String("key", redisKey), slog.Any("error", err))
			}
		})
	}, nil
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}
