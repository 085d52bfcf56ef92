package filter

import (
	"context"
	"strings"

	"github.com/rushteam/matchkit/core"
)

// LengthFilter 是长度过滤器，只保留长度在可接受集合内的候选。
// 先按规范化后的长度属性精确匹配；未命中时退化为在长度属性原文与
// 商品标题中做子串包含（容忍未归一化的目录数据，如 "short bob 10 inch"）。
// 两种方式都未命中时过滤。
type LengthFilter struct {
	// Lengths 可接受的长度档位（"short" / "medium" / "long"）
	Lengths []string
}

func (f *LengthFilter) Name() string {
	return "filter.length"
}

func (f *LengthFilter) ShouldFilter(
	_ context.Context,
	_ *core.MatchContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}
	if len(f.Lengths) == 0 {
		return false, nil
	}

	length := norm(c.Attr(core.AttrLength))
	descriptor := norm(c.Title)

	for _, want := range f.Lengths {
		w := norm(want)
		if w == "" {
			continue
		}
		if length == w {
			return false, nil
		}
		if length != "" && strings.Contains(length, w) {
			return false, nil
		}
		if descriptor != "" && strings.Contains(descriptor, w) {
			return false, nil
		}
	}
	return true, nil
}
