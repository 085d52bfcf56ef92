package rank

import (
	"context"
	"sort"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/model"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
)

// MatchNode 是打分 Node：用 Scorer 给每个候选算分项得分与总分。
// - 写入 item.Score / item.Breakdown 与 rank_model 标签
// - 按总分稳定降序排序（同分保持输入相对顺序，保证结果确定性）
// - 缺失 ID 的候选视为不可用，跳过且不进入后续阶段
type MatchNode struct {
	Scorer model.Scorer
}

func (n *MatchNode) Name() string        { return "score.match" }
func (n *MatchNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *MatchNode) Process(
	_ context.Context,
	mctx *core.MatchContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Scorer == nil || len(items) == 0 {
		return items, nil
	}

	var target *core.MatchTarget
	if mctx != nil {
		target = mctx.Target
	}

	out := make([]*core.Candidate, 0, len(items))
	for _, c := range items {
		if c == nil || c.ID == "" {
			continue
		}
		b, err := n.Scorer.Score(target, c)
		if err != nil {
			return nil, err
		}
		c.Breakdown = b
		c.Score = b.Total
		c.PutLabel("rank_model", utils.Label{Value: n.Scorer.Name(), Source: "score"})
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
