package model

import "github.com/rushteam/matchkit/core"

// Scorer 是打分阶段的最小抽象：输入匹配目标与候选，输出分项得分。
// 具体实现可以是本地规则打分（MatchScorer）或远程模型服务。
type Scorer interface {
	Name() string
	Score(t *core.MatchTarget, c *core.Candidate) (*core.ScoreBreakdown, error)
}
