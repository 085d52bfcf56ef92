package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// PriceFilter 是价格区间过滤器，区间为闭区间，nil 表示对应方向无界。
//
// 注意：价格解析失败的候选 Price 为 0。只设上界时这类候选会通过过滤，
// 与历史行为保持一致；需要剔除时请显式设置下界。
type PriceFilter struct {
	Min *float64
	Max *float64
}

func (f *PriceFilter) Name() string {
	return "filter.price"
}

func (f *PriceFilter) ShouldFilter(
	_ context.Context,
	_ *core.MatchContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}
	if f.Min != nil && c.Price < *f.Min {
		return true, nil
	}
	if f.Max != nil && c.Price > *f.Max {
		return true, nil
	}
	return false, nil
}
