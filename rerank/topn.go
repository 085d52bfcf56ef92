package rerank

import (
	"context"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在打分后截取前 N 个候选。
// 不做多样性策展，适合只要纯按分截断的链路。
//
// 使用场景：
//   - 打分后只返回 Top 10/20/50 个结果
//   - 控制结果数量，减少下游特征回填开销
//   - 不需要 Curator 的风格多样性保证时的轻量替代
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.MatchNode{...},     // 打分
//	        &rerank.TopNNode{N: 20},  // 截取 Top 20
//	    },
//	}
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，则返回所有候选（不截断）
	// 如果 N > len(items)，则返回所有候选
	N int
}

func (n *TopNNode) Name() string {
	return "curate.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindCurate
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.MatchContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	// 如果 N <= 0，不截断，返回所有候选
	if n.N <= 0 {
		return items, nil
	}

	// 如果候选数量小于等于 N，直接返回
	if len(items) <= n.N {
		return items, nil
	}

	// 截取前 N 个候选
	return items[:n.N], nil
}
