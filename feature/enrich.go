package feature

import (
	"context"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
)

// EnrichNode 是特征注入节点：打分前为候选补齐属性、热度先验与库存状态。
//
// 补齐来源按顺序：
//  1. Service（特征服务：Store 后端或 Feast 后端）
//  2. TitleFallback 开启时，从商品标题识别缺失的色族/色号/长度/纹理
//
// 只补缺不覆盖：检索阶段已有的字段保持不变，特征服务的值仅在字段缺失时写入。
// 特征服务故障时降级为跳过补齐，候选按原样继续流转。
type EnrichNode struct {
	// Service 特征服务（可选；nil 时只做标题回退）
	Service core.FeatureService

	// TitleFallback 是否启用标题关键词回退
	TitleFallback bool
}

func (n *EnrichNode) Name() string        { return "feature.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.MatchContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(items) == 0 {
		return items, nil
	}

	var features map[string]core.ProductFeatures
	if n.Service != nil {
		ids := make([]string, 0, len(items))
		for _, c := range items {
			if c != nil && c.ID != "" {
				ids = append(ids, c.ID)
			}
		}
		var err error
		features, err = n.Service.BatchGetProductFeatures(ctx, ids)
		if err != nil {
			features = nil
		}
	}

	for _, c := range items {
		if c == nil || c.ID == "" {
			continue
		}
		if f, ok := features[c.ID]; ok {
			applyFeatures(c, f)
			c.PutLabel("feature_source", utils.Label{Value: n.Service.Name(), Source: "feature"})
		}
		if n.TitleFallback {
			applyTitleFallback(c)
		}
	}
	return items, nil
}

// applyFeatures 把特征服务的结果补到候选上，已有字段不覆盖。
func applyFeatures(c *core.Candidate, f core.ProductFeatures) {
	for k, v := range f.Attrs {
		if c.Attr(k) == "" {
			c.SetAttr(k, v)
		}
	}
	if c.Popularity == nil && f.Popularity != nil {
		v := *f.Popularity
		c.Popularity = &v
	}
	if c.Available == nil && f.Available != nil {
		v := *f.Available
		c.Available = &v
	}
}

// applyTitleFallback 从标题识别缺失的色族/色号/长度/纹理。
func applyTitleFallback(c *core.Candidate) {
	if c.Title == "" {
		return
	}
	needColor := c.Attr(core.AttrColorFamily) == "" || c.Attr(core.AttrShade) == ""
	needLength := c.Attr(core.AttrLength) == ""
	needTexture := c.Attr(core.AttrTexture) == ""
	if !needColor && !needLength && !needTexture {
		return
	}

	p := core.ProfileFromText(c.Title)
	if p == nil {
		return
	}

	filled := false
	fill := func(key, val string) {
		if val != "" && c.Attr(key) == "" {
			c.SetAttr(key, val)
			filled = true
		}
	}
	fill(core.AttrColorFamily, p.ColorFamily)
	fill(core.AttrShade, p.Shade)
	fill(core.AttrLength, p.Length)
	fill(core.AttrTexture, p.Texture)

	if filled {
		c.PutLabel("feature_fallback", utils.Label{Value: "title", Source: "feature"})
	}
}
