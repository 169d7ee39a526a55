package locks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aivanahq/aivana-backend/pkg/redis"
)

// SessionLocker serializes settlement work for a single cart session. Acquire
// blocks until the lock is held or the context ends and returns a release
// function that must be called exactly once.
type SessionLocker interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

const (
	lockScope     = "settle"
	lockTTL       = 30 * time.Second
	retryInterval = 50 * time.Millisecond
)

// RedisLocker implements SessionLocker on top of SetNX with a TTL so a
// crashed holder cannot wedge the session forever.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := l.client.LockKey(lockScope, sessionID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// Best effort: the TTL reclaims the lock if the delete fails.
				_ = l.client.Del(context.Background(), key)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// LocalLocker is the single-process fallback used when redis is not
// configured. Suitable only when one api instance is running.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[sessionID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[sessionID] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
