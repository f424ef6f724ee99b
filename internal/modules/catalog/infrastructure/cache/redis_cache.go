package cache

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 10 * time.Minute

	courseListKey    = "courses:all"
	myCoursesPattern = "my-courses:*"

	scanBatch = 100
)

// CourseCache stores rendered catalog responses in redis. A nil client
// disables caching; redis errors are logged and treated as misses.
type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCourseCache(client *redis.Client, ttl time.Duration) *CourseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CourseCache{client: client, ttl: ttl}
}

func CourseKey(id uuid.UUID) string {
	return "course:" + id.String()
}

func MyCoursesKey(userID uuid.UUID) string {
	return "my-courses:" + userID.String()
}

func CourseListKey() string {
	return courseListKey
}

// Get returns the cached payload and whether it was a hit
func (c *CourseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[CourseCache.Get] %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *CourseCache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("[CourseCache.Set] %s: %v", key, err)
	}
}

func (c *CourseCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CourseCache.Invalidate] %v: %v", keys, err)
	}
}

// InvalidateMyCourses drops a user's cached enrolled course list
func (c *CourseCache) InvalidateMyCourses(ctx context.Context, userID uuid.UUID) {
	c.Invalidate(ctx, MyCoursesKey(userID))
}

// InvalidateAllMyCourses drops every user's cached enrolled course list
func (c *CourseCache) InvalidateAllMyCourses(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, myCoursesPattern, scanBatch).Iterator()
	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			c.Invalidate(ctx, keys...)
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[CourseCache.InvalidateAllMyCourses] scan: %v", err)
	}
	c.Invalidate(ctx, keys...)
}
