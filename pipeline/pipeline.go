package pipeline

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// Pipeline 是 Matchkit 的核心抽象：把匹配逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	mctx *core.MatchContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, mctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
