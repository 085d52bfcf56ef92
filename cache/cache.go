// Package cache 提供按内容哈希 key 的进程内 TTL 缓存与请求去重。
// 图像分析、全量打分这类昂贵操作按输入内容缓存结果；并发的相同请求
// 通过 singleflight 合并为一次底层计算。
package cache

import (
	"sync"
	"time"
)

// entry 是缓存条目：值、创建时间、存活时长。
type entry[V any] struct {
	value     V
	createdAt time.Time
	ttl       time.Duration
}

// expired 判断条目在 now 时刻是否已过期；ttl <= 0 表示永不过期。
func (e entry[V]) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.createdAt) > e.ttl
}

// Stats 是缓存命中统计。
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Expired uint64 `json:"expired"`
}

// Cache 是并发安全的 TTL 缓存。过期采用惰性策略：读到过期条目时
// 记 miss 并当场剔除，没有后台清扫协程。
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	stats   Stats

	// now 可注入时钟，测试用
	now func() time.Time
}

// New 创建一个空缓存。
func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Get 读取 key 对应的值。未命中或已过期返回 (零值, false)；
// 过期条目被当场剔除，不会再次返回。
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		c.stats.Expired++
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	return e.value, true
}

// Set 写入 key 对应的值，总是覆盖旧条目；ttl <= 0 表示永不过期。
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{
		value:     value,
		createdAt: c.now(),
		ttl:       ttl,
	}
}

// Delete 删除 key 对应的条目。
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len 返回当前条目数（含尚未被惰性剔除的过期条目）。
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats 返回命中统计快照。
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
