package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock 可推进的时钟，驱动窗口判定
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache() (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := New()
	c.now = clock.now
	return c, clock
}

func TestGetMissOnEmpty(t *testing.T) {
	c, _ := newTestCache()
	v, state := c.Get("nope")
	assert.Nil(t, v)
	assert.Equal(t, Miss, state)
}

func TestFreshnessWindows(t *testing.T) {
	c, clock := newTestCache()
	c.Put("k", "value", 30*time.Second, 2*time.Minute)

	v, state := c.Get("k")
	assert.Equal(t, Fresh, state)
	assert.Equal(t, "value", v)

	// 过了新鲜窗口：旧值可用但标记为过期
	clock.advance(31 * time.Second)
	v, state = c.Get("k")
	assert.Equal(t, Stale, state)
	assert.Equal(t, "value", v)

	// 过了保留窗口：按未命中处理
	clock.advance(2 * time.Minute)
	v, state = c.Get("k")
	assert.Equal(t, Miss, state)
	assert.Nil(t, v)
}

func TestInvalidateForcesMiss(t *testing.T) {
	c, _ := newTestCache()
	c.Put("k", "value", time.Minute, 2*time.Minute)

	// 新鲜窗口内显式失效也必须按未命中处理，强制重拉
	c.Invalidate("k")
	v, state := c.Get("k")
	assert.Equal(t, Miss, state)
	assert.Nil(t, v)
}

func TestPutAfterInvalidateServesAgain(t *testing.T) {
	c, _ := newTestCache()
	c.Put("k", "old", time.Minute, 2*time.Minute)
	c.Invalidate("k")
	c.Put("k", "new", time.Minute, 2*time.Minute)

	v, state := c.Get("k")
	assert.Equal(t, Fresh, state)
	assert.Equal(t, "new", v)
}

func TestSubscribeNotifications(t *testing.T) {
	c, _ := newTestCache()

	var events []string
	unsubscribe := c.Subscribe("k", func(key string) {
		events = append(events, key)
	})

	c.Put("k", 1, time.Minute, 2*time.Minute)
	c.Invalidate("k")
	c.Put("other", 2, time.Minute, 2*time.Minute)

	assert.Equal(t, []string{"k", "k"}, events)

	unsubscribe()
	c.Put("k", 3, time.Minute, 2*time.Minute)
	assert.Len(t, events, 2)
}

func TestSweep(t *testing.T) {
	c, clock := newTestCache()
	c.Put("short", 1, time.Second, 10*time.Second)
	c.Put("long", 2, time.Minute, time.Hour)
	c.Put("dead", 3, time.Minute, time.Hour)
	c.Invalidate("dead")

	clock.advance(30 * time.Second)
	removed := c.Sweep()
	assert.Equal(t, 2, removed)

	_, state := c.Get("long")
	assert.Equal(t, Fresh, state)
	_, state = c.Get("short")
	assert.Equal(t, Miss, state)
}
