package lock

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 30 * time.Second

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another request is never released by us
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOrderLock guards order verification with SET NX. Without redis, or
// when redis is unreachable, every acquire succeeds and the database
// constraints are left to deduplicate.
type RedisOrderLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOrderLock(client *redis.Client, ttl time.Duration) *RedisOrderLock {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisOrderLock{client: client, ttl: ttl}
}

func Key(orderID string) string {
	return "purchase:lock:" + orderID
}

func (l *RedisOrderLock) Acquire(ctx context.Context, orderID string) (func(), bool, error) {
	noop := func() {}
	if l == nil || l.client == nil {
		return noop, true, nil
	}

	key := Key(orderID)
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		if ctx.Err() != nil {
			return noop, false, ctx.Err()
		}
		log.Printf("[RedisOrderLock.Acquire] %s: %v, continuing without lock", key, err)
		return noop, true, nil
	}
	if !ok {
		return noop, false, nil
	}

	release := func() {
		// the request context may already be done
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(relCtx, l.client, []string{key}, token).Err(); err != nil {
			log.Printf("[RedisOrderLock.Release] %s: %v", key, err)
		}
	}
	return release, true, nil
}
