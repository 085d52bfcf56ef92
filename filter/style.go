package filter

import (
	"context"

	"github.com/rushteam/matchkit/core"
)

// styleCompat 是风格兼容表：目标风格 → 可接受的候选风格集合。
// 匹配是单向的（从目标到候选），仅在精确匹配失败时查表。
var styleCompat = map[string][]string{
	"professional": {"modern", "classic", "formal", "business"},
	"classic":      {"professional", "formal", "timeless"},
	"glamorous":    {"formal", "elegant", "evening"},
	"casual":       {"natural", "everyday", "relaxed"},
	"natural":      {"casual", "everyday"},
	"edgy":         {"modern", "bold", "trendy"},
}

// StyleFilter 是风格过滤器，只保留风格与目标一致或兼容的候选。
// 默认链路不启用（风格多样性由策展阶段负责），仅在业务明确要求
// 风格硬匹配时显式加入。
type StyleFilter struct {
	// Style 目标风格；为空时读取 mctx.Target.Style
	Style string
}

func (f *StyleFilter) Name() string {
	return "filter.style"
}

func (f *StyleFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil {
		return true, nil
	}
	want := norm(f.Style)
	if want == "" && mctx != nil && mctx.Target != nil {
		want = norm(mctx.Target.Style)
	}
	if want == "" {
		return false, nil
	}

	got := norm(c.Attr(core.AttrStyle))
	if got == want {
		return false, nil
	}
	for _, compat := range styleCompat[want] {
		if got == norm(compat) {
			return false, nil
		}
	}
	return true, nil
}
