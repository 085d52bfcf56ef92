package filter

import (
	"context"
	"strings"

	"github.com/rushteam/matchkit/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被过滤
	ShouldFilter(ctx context.Context, mctx *core.MatchContext, c *core.Candidate) (bool, error)
}

// FromTarget 根据匹配目标构建硬性约束过滤器集合：
// 长度、库存、价格区间。颜色与纹理是软偏好，交给打分阶段；
// 风格约束只影响策展多样性，不做硬过滤（需要时显式加 StyleFilter）。
func FromTarget(t *core.MatchTarget) []Filter {
	if t == nil {
		return nil
	}
	var filters []Filter
	if len(t.Lengths) > 0 {
		filters = append(filters, &LengthFilter{Lengths: t.Lengths})
	}
	if t.AvailableOnly {
		filters = append(filters, &AvailabilityFilter{})
	}
	if t.PriceMin != nil || t.PriceMax != nil {
		filters = append(filters, &PriceFilter{Min: t.PriceMin, Max: t.PriceMax})
	}
	return filters
}

// norm 规范化属性值：小写、去首尾空白、连字符统一为空格、折叠连续空白。
func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
