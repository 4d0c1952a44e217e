// Package cache 实现带新鲜度窗口的进程级只读缓存与查询层。
// 缓存是整个会话共享的；唯一的写入者是成功变更后的失效步骤，
// 失效后的下一次读取必须重新拉取，不得再回放变更前的快照。
package cache

import (
	"sync"
	"time"
)

// State 缓存命中状态
type State int

const (
	// Miss 未命中（不存在、被显式失效或超出保留窗口），必须同步拉取
	Miss State = iota
	// Fresh 新鲜窗口内，直接使用
	Fresh
	// Stale 超出新鲜窗口但仍在保留窗口内，可先用旧值、后台刷新
	Stale
)

type entry struct {
	value       interface{}
	fetchedAt   time.Time
	freshFor    time.Duration
	retainFor   time.Duration
	invalidated bool
}

// Cache 按键缓存，附带订阅通知：组件登记关心的键，键更新或失效时收到回调
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	subs    map[string]map[int]func(key string)
	nextSub int
	now     func() time.Time
}

// New 创建缓存
func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		subs:    make(map[string]map[int]func(key string)),
		now:     time.Now,
	}
}

// Get 读取缓存值及其状态
func (c *Cache) Get(key string) (interface{}, State) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.invalidated {
		return nil, Miss
	}

	age := c.now().Sub(e.fetchedAt)
	if age >= e.retainFor {
		return nil, Miss
	}
	if age >= e.freshFor {
		return e.value, Stale
	}
	return e.value, Fresh
}

// Put 写入缓存并通知订阅者
func (c *Cache) Put(key string, value interface{}, freshFor, retainFor time.Duration) {
	c.mu.Lock()
	c.entries[key] = &entry{
		value:     value,
		fetchedAt: c.now(),
		freshFor:  freshFor,
		retainFor: retainFor,
	}
	c.mu.Unlock()

	c.notify(key)
}

// Invalidate 显式失效：单个原子的"标脏"动作，之后的读取按未命中处理（强制重拉）
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.invalidated = true
	}
	c.mu.Unlock()

	c.notify(key)
}

// Subscribe 订阅某个键的更新与失效，返回退订函数
func (c *Cache) Subscribe(key string, fn func(key string)) func() {
	c.mu.Lock()
	if c.subs[key] == nil {
		c.subs[key] = make(map[int]func(key string))
	}
	id := c.nextSub
	c.nextSub++
	c.subs[key][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs[key], id)
		c.mu.Unlock()
	}
}

// notify 通知订阅者，回调在锁外执行
func (c *Cache) notify(key string) {
	c.mu.RLock()
	fns := make([]func(key string), 0, len(c.subs[key]))
	for _, fn := range c.subs[key] {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(key)
	}
}

// Sweep 清理超出保留窗口的条目，由后台任务周期调用
func (c *Cache) Sweep() int {
	now := c.now()
	removed := 0

	c.mu.Lock()
	for key, e := range c.entries {
		if e.invalidated || now.Sub(e.fetchedAt) >= e.retainFor {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	return removed
}
