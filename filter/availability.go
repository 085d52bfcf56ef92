package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// AvailabilityFilter 是库存过滤器，剔除明确无库存的候选。
// 库存状态缺失（nil）的候选予以保留：很多数据源不回传库存，
// 一刀切过滤会清空结果；缺失的代价由打分阶段承担（库存分记 0）。
type AvailabilityFilter struct{}

func (f *AvailabilityFilter) Name() string {
	return "filter.availability"
}

func (f *AvailabilityFilter) ShouldFilter(
	_ context.Context,
	_ *core.MatchContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}
	if c.Available != nil && !*c.Available {
		return true, nil
	}
	return false, nil
}
