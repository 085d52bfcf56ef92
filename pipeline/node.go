package pipeline

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRetrieval   Kind = "retrieval"   // 检索阶段：生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合硬性约束的候选
	KindScore       Kind = "score"       // 打分阶段：对候选打分并排序
	KindCurate      Kind = "curate"      // 策展阶段：在打分结果上做多样性/截断
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充特征或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便检索生成、过滤截断、策展重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		mctx *core.MatchContext,
		items []*core.Candidate,
	) ([]*core.Candidate, error)
}
