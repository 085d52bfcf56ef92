package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// SeenFilter 是近期浏览过滤器，过滤掉用户在时间窗口内已经看过/买过的商品。
// 推荐位反复出现刚浏览过的商品体验很差，按用户维度做窗口去重。
type SeenFilter struct {
	// Store 用于从存储中读取用户浏览/购买历史
	Store SeenStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{UserID}
	KeyPrefix string

	// TimeWindow 是浏览历史的时间窗口（秒）；0 表示不限窗口
	TimeWindow int64
}

// SeenStore 是浏览历史存储接口。
type SeenStore interface {
	// GetSeenProducts 获取用户在指定时间窗口内已浏览的商品 ID 列表
	GetSeenProducts(ctx context.Context, userID string, keyPrefix string, timeWindow int64) ([]string, error)
}

// NewSeenFilter 创建一个近期浏览过滤器。
func NewSeenFilter(storeAdapter *StoreAdapter, keyPrefix string, timeWindow int64) *SeenFilter {
	var store SeenStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &SeenFilter{
		Store:      store,
		KeyPrefix:  keyPrefix,
		TimeWindow: timeWindow,
	}
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	ctx context.Context,
	mctx *core.MatchContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}
	if mctx == nil || mctx.UserID == "" || f.Store == nil {
		return false, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "user:seen"
	}

	seenIDs, err := f.Store.GetSeenProducts(ctx, mctx.UserID, keyPrefix, f.TimeWindow)
	if err != nil {
		return false, nil
	}

	for _, id := range seenIDs {
		if c.ID == id {
			return true, nil
		}
	}

	return false, nil
}
