package filter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/matchkit/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 黑名单、用户拉黑、浏览历史都走同一个 Store，由 key 前缀区分。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}

	return ids, nil
}

// GetUserBlocks 从 Store 读取用户拉黑列表。
func (a *StoreAdapter) GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error) {
	key := keyPrefix + ":" + userID
	return a.GetBlacklist(ctx, key)
}

// GetSeenProducts 从 Store 读取用户浏览历史。
// 值支持两种格式：简单 ID 列表，或带时间戳的条目列表（按 timeWindow 过滤）。
func (a *StoreAdapter) GetSeenProducts(ctx context.Context, userID string, keyPrefix string, timeWindow int64) ([]string, error) {
	key := keyPrefix + ":" + userID
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	cutoffTime := now - timeWindow

	// 尝试解析为简单 ID 列表
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		return ids, nil
	}

	// 尝试解析为带时间戳的列表
	var entries []struct {
		ProductID string `json:"product_id"`
		Timestamp int64  `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &entries); err == nil {
		ids = make([]string, 0, len(entries))
		for _, entry := range entries {
			if timeWindow > 0 && entry.Timestamp < cutoffTime {
				continue
			}
			ids = append(ids, entry.ProductID)
		}
		return ids, nil
	}

	return nil, err
}
