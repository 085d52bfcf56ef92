package retrieval

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// Source 是检索源的抽象：根据匹配目标产出一批候选商品。
// 目录全量、畅销榜、色彩近邻等各自实现此接口，由 Fanout 并发编排。
type Source interface {
	Name() string

	Retrieve(
		ctx context.Context,
		mctx *core.MatchContext,
	) ([]*core.Candidate, error)
}
