package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// UserBlockFilter 是用户屏蔽过滤器，过滤掉用户主动隐藏的商品。
type UserBlockFilter struct {
	// Store 用于从存储中读取用户屏蔽列表
	Store UserBlockStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{UserID}
	KeyPrefix string
}

// UserBlockStore 是用户屏蔽存储接口。
type UserBlockStore interface {
	// GetUserBlocks 获取用户屏蔽的商品 ID 列表
	GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error)
}

// NewUserBlockFilter 创建一个用户屏蔽过滤器。
func NewUserBlockFilter(storeAdapter *StoreAdapter, keyPrefix string) *UserBlockFilter {
	var store UserBlockStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &UserBlockFilter{
		Store:     store,
		KeyPrefix: keyPrefix,
	}
}

func (f *UserBlockFilter) Name() string {
	return "filter.user_block"
}

func (f *UserBlockFilter) ShouldFilter(
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
		keyPrefix = "user:block"
	}

	blockedIDs, err := f.Store.GetUserBlocks(ctx, mctx.UserID, keyPrefix)
	if err != nil {
		return false, nil
	}

	for _, id := range blockedIDs {
		if c.ID == id {
			return true, nil
		}
	}

	return false, nil
}
