package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/dsl"
)

// RuleFilter 是规则过滤器，用 CEL 表达式表达业务过滤逻辑。
// 表达式求值为 true 表示候选被过滤掉（表达式描述"要剔除什么"）。
//
// 示例：
//   - `item.vendor == "discontinued-brand"` → 下架品牌
//   - `item.price > 500.0 && item.attrs.construction == "basic"` → 高价低工艺
//   - `label.retrieval_source == "bestseller" && item.score < 0.2` → 低分榜单位
type RuleFilter struct {
	rule *dsl.Rule
}

// NewRuleFilter 编译表达式并构建规则过滤器。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	rule, err := dsl.CompileRule(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{rule: rule}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}
	return f.rule.Eval(c, mctx)
}
