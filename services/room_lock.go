package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"hotel-reservation/apperror"
)

// RoomLocker serializes bookings of one room across the check and the insert.
// The returned unlock func is safe to call more than once.
type RoomLocker interface {
	Lock(ctx context.Context, roomID uint) (unlock func(), err error)
}

// LocalRoomLocker guards rooms within a single process.
type LocalRoomLocker struct {
	mu    sync.Mutex
	slots map[uint]chan struct{}
}

func NewLocalRoomLocker() *LocalRoomLocker {
	return &LocalRoomLocker{slots: map[uint]chan struct{}{}}
}

func (l *LocalRoomLocker) Lock(ctx context.Context, roomID uint) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[roomID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[roomID] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-slot }) }, nil
	case <-ctx.Done():
		return nil, apperror.StoreUnavailable(fmt.Errorf("waiting for room %d lock: %w", roomID, ctx.Err()))
	}
}

var releaseRoomLock = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisRoomLocker guards rooms across every instance sharing the Redis
// server. Keys expire after ttl so a crashed holder cannot block a room.
type RedisRoomLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	prefix string
}

func NewRedisRoomLocker(client *redis.Client, ttl time.Duration) *RedisRoomLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisRoomLocker{client: client, ttl: ttl, retry: 25 * time.Millisecond, prefix: "hotel:lock:room:"}
}

func (l *RedisRoomLocker) key(roomID uint) string {
	return fmt.Sprintf("%s%d", l.prefix, roomID)
}

func (l *RedisRoomLocker) Lock(ctx context.Context, roomID uint) (func(), error) {
	key := l.key(roomID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, apperror.StoreUnavailable(fmt.Errorf("acquire %s: %w", key, err))
		}
		if ok {
			var once sync.Once
			return func() { once.Do(func() { l.release(key, token) }) }, nil
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, apperror.StoreUnavailable(fmt.Errorf("waiting for %s: %w", key, ctx.Err()))
		case <-timer.C:
		}
	}
}

func (l *RedisRoomLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseRoomLock.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		log.Printf("⚠️  failed to release %s: %v", key, err)
	}
}
