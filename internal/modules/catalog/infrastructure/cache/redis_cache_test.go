package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	assert.Equal(t, "course:11111111-1111-1111-1111-111111111111", CourseKey(id))
	assert.Equal(t, "my-courses:11111111-1111-1111-1111-111111111111", MyCoursesKey(id))
	assert.Equal(t, "courses:all", CourseListKey())
}

func TestCourseCache_NilClientIsNoop(t *testing.T) {
	c := NewCourseCache(nil, 0)
	assert.Equal(t, DefaultTTL, c.ttl)

	c.Set(context.Background(), "k", []byte("v"))
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	c.Invalidate(context.Background(), "k")

	var none *CourseCache
	_, ok = none.Get(context.Background(), "k")
	assert.False(t, ok)
	none.InvalidateMyCourses(context.Background(), uuid.New())
	none.InvalidateAllMyCourses(context.Background())
}

func TestCourseCache_UnreachableRedisIsMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer rdb.Close()
	c := NewCourseCache(rdb, time.Minute)

	c.Set(context.Background(), "k", []byte("v"))
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	c.InvalidateMyCourses(context.Background(), uuid.New())
	c.InvalidateAllMyCourses(context.Background())
}

// recordingHook answers commands without a server
type recordingHook struct {
	scanKeys []string
	cmds     [][]any
}

func (h *recordingHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *recordingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.cmds = append(h.cmds, cmd.Args())
		switch c := cmd.(type) {
		case *redis.ScanCmd:
			c.SetVal(h.scanKeys, 0)
		case *redis.IntCmd:
			c.SetVal(int64(len(cmd.Args()) - 1))
		}
		return nil
	}
}

func (h *recordingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestCourseCache_InvalidateAllMyCourses(t *testing.T) {
	hook := &recordingHook{scanKeys: []string{"my-courses:a", "my-courses:b"}}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	rdb.AddHook(hook)

	NewCourseCache(rdb, time.Minute).InvalidateAllMyCourses(context.Background())

	require.Len(t, hook.cmds, 2)
	assert.Equal(t, "scan", hook.cmds[0][0])
	assert.Contains(t, hook.cmds[0], "my-courses:*")
	assert.Equal(t, []any{"del", "my-courses:a", "my-courses:b"}, hook.cmds[1])
}
