package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Group 把缓存与 singleflight 组合成"查缓存、并发去重、回填"一体的入口。
// 对同一个 key 的并发调用至多触发一次底层计算，所有等待者共享同一结果
// （成功或失败）；成功结果回填缓存，失败不缓存。
type Group[V any] struct {
	cache  *Cache[V]
	flight singleflight.Group
}

// NewGroup 创建一个带独立缓存的去重组。
func NewGroup[V any]() *Group[V] {
	return &Group[V]{cache: New[V]()}
}

// Do 返回 key 对应的值：缓存命中直接返回；未命中时经 singleflight
// 调用 fn 计算，成功后以 ttl 写入缓存。
//
// fn 在与调用方取消解耦的 context 上执行（context.WithoutCancel）：
// 发起计算的调用方中途放弃不会取消共享计算，结果仍会回填缓存供
// 其他请求使用。每个调用方自己的等待则受自己的 ctx 约束，取消时
// 立刻返回 ctx.Err()。
func (g *Group[V]) Do(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fn func(ctx context.Context) (V, error),
) (V, error) {
	if v, ok := g.cache.Get(key); ok {
		return v, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := g.flight.DoChan(key, func() (any, error) {
		// 抢到执行权后再查一次缓存：上一班飞行可能刚回填完
		if v, ok := g.cache.Get(key); ok {
			return v, nil
		}
		v, err := fn(detached)
		if err != nil {
			return nil, err
		}
		g.cache.Set(key, v, ttl)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Get 只查缓存，不触发计算。
func (g *Group[V]) Get(key string) (V, bool) {
	return g.cache.Get(key)
}

// Set 直接写入缓存（预热等场景）。
func (g *Group[V]) Set(key string, value V, ttl time.Duration) {
	g.cache.Set(key, value, ttl)
}

// Stats 返回底层缓存的命中统计。
func (g *Group[V]) Stats() Stats {
	return g.cache.Stats()
}
