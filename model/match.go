package model

import (
	"github.com/rushteam/matchkit/colorspace"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/conv"
)

const (
	// familyFloorScore 是跨色族候选的颜色分下限。刻意非零：
	// 全零会让加权总分把跨色族候选压死，策展阶段就没有替代素材可用。
	familyFloorScore = 0.3

	// 热度缺失时的价格代理参数：popularity = clamp(200/price, 0.2, 1.0)
	popularityPriceBase  = 200.0
	popularityProxyFloor = 0.2
)

// MatchScorer 实现五维匹配打分：颜色相似度、纹理兼容度、库存、
// 热度、工艺档位，按权重加权得到总分。
//
// 打分规则：
//   - 颜色：目标与候选都能解析出感知色值时算感知相似度；
//     否则退化为色族比对（同族 1.0，跨族 0.3）
//   - 纹理：精确匹配 1.0，兼容表命中 0.7，否则 0.2
//   - 库存：明确有库存 1.0，其余 0.0
//   - 热度：有归一化先验直接用（截断到 [0,1]），否则用价格代理
//   - 工艺：固定档位表，未知档位 0.5
//
// 所有分量与总分都落在 [0, 1] 区间。
type MatchScorer struct {
	Weights core.ScoringWeights
}

// NewMatchScorer 创建打分器并校验权重（非负、总和为 1）。
func NewMatchScorer(weights core.ScoringWeights) (*MatchScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &MatchScorer{Weights: weights}, nil
}

func (m *MatchScorer) Name() string { return "match" }

// Score 计算候选相对目标的分项得分与加权总分。
func (m *MatchScorer) Score(t *core.MatchTarget, c *core.Candidate) (*core.ScoreBreakdown, error) {
	if c == nil {
		return nil, core.NewDomainError(core.ModuleMatch, core.ErrorCodeInvalidInput, "match: candidate is nil")
	}

	b := &core.ScoreBreakdown{
		Color:        colorScore(t, c),
		Texture:      textureScore(t, c),
		Availability: availabilityScore(c),
		Popularity:   popularityScore(c),
		Construction: constructionScore(conv.NormalizeTerm(c.Attr(core.AttrConstruction))),
	}

	w := m.Weights
	b.Total = w.Color*b.Color +
		w.Texture*b.Texture +
		w.Availability*b.Availability +
		w.Popularity*b.Popularity +
		w.Construction*b.Construction

	return b, nil
}

// colorScore 计算颜色分。优先走感知路径：目标带 Lab 且候选能通过
// 色号/色族查表解析出 Lab 时，按感知距离算相似度。否则退化为色族
// 比对：候选色族在目标可接受色族集合内得 1.0，跨族得下限 0.3。
// 目标完全没有颜色信号时不做颜色偏好，记满分。
func colorScore(t *core.MatchTarget, c *core.Candidate) float64 {
	if t == nil || !t.HasColorSignal() {
		return 1.0
	}

	if t.Color != nil {
		if lab, ok := resolveCandidateLab(c); ok {
			return colorspace.Similarity(*t.Color, lab)
		}
	}

	if family := c.Family(); family != "" {
		for _, accepted := range t.AcceptedFamilies() {
			if family == accepted {
				return 1.0
			}
		}
	}
	return familyFloorScore
}

// resolveCandidateLab 把候选的色号/色族属性解析为感知色值。
func resolveCandidateLab(c *core.Candidate) (colorspace.Lab, bool) {
	if shade := c.Attr(core.AttrShade); shade != "" {
		if lab, ok := colorspace.LookupShade(shade); ok {
			return lab, true
		}
	}
	if family := c.Attr(core.AttrColorFamily); family != "" {
		if lab, ok := colorspace.LookupShade(family); ok {
			return lab, true
		}
	}
	return colorspace.Lab{}, false
}

// textureScore 计算纹理分：目标无纹理偏好记满分；精确匹配 1.0，
// 兼容表命中 0.7，其余（含候选纹理缺失）0.2。
func textureScore(t *core.MatchTarget, c *core.Candidate) float64 {
	if t == nil || t.Texture == "" {
		return 1.0
	}
	want := conv.NormalizeTerm(t.Texture)
	got := conv.NormalizeTerm(c.Attr(core.AttrTexture))
	if got == "" {
		return textureFloorScore
	}
	if got == want {
		return 1.0
	}
	if textureCompatible(want, got) {
		return texturePartialScore
	}
	return textureFloorScore
}

// availabilityScore 计算库存分：明确有库存 1.0，其余 0.0。
// 库存状态缺失的候选能通过过滤（见 filter 包），但在打分上
// 不享受"有库存"的加成。
func availabilityScore(c *core.Candidate) float64 {
	if c.Available != nil && *c.Available {
		return 1.0
	}
	return 0.0
}

// popularityScore 计算热度分。有归一化先验时直接采用并截断到 [0,1]；
// 缺失时用价格做代理（越便宜视作越热门），price<=0 记满分。
// 价格代理只是缺数据时的启发式，不是真实热度模型。
func popularityScore(c *core.Candidate) float64 {
	if c.Popularity != nil {
		p := *c.Popularity
		if p < 0 {
			return 0.0
		}
		if p > 1 {
			return 1.0
		}
		return p
	}

	if c.Price <= 0 {
		return 1.0
	}
	proxy := popularityPriceBase / c.Price
	if proxy > 1.0 {
		return 1.0
	}
	if proxy < popularityProxyFloor {
		return popularityProxyFloor
	}
	return proxy
}
