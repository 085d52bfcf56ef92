package core

import (
	"github.com/rushteam/matchkit/colorspace"
	"github.com/rushteam/matchkit/pkg/utils"
)

// 候选商品属性的标准键。检索与特征注入统一按这些键写入 Attrs，
// 过滤与打分按键读取，避免各模块各自约定字符串。
const (
	AttrColorFamily  = "color_family"
	AttrShade        = "shade"
	AttrUndertone    = "undertone"
	AttrTexture      = "texture"
	AttrLength       = "length"
	AttrStyle        = "style"
	AttrConstruction = "construction"
)

// Candidate 是匹配链路中的统一承载结构：商品数据、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Candidate struct {
	// ID 商品唯一标识
	ID string `json:"id"`

	// Handle 商品在店铺中的 URL 标识（可选）
	Handle string `json:"handle,omitempty"`

	// Title 商品标题
	Title string `json:"title,omitempty"`

	// Vendor 品牌/供应商
	Vendor string `json:"vendor,omitempty"`

	// Available 库存状态；nil 表示数据源未提供
	Available *bool `json:"available,omitempty"`

	// Price 价格；缺失或脏数据统一按 0 处理
	Price float64 `json:"price,omitempty"`

	// Attrs 规范化商品属性（色族、色号、纹理、长度、风格、工艺等），
	// 键见 AttrXXX 常量
	Attrs map[string]string `json:"attrs,omitempty"`

	// Popularity 先验热度，约定取值 [0, 1]；nil 表示数据源未提供
	Popularity *float64 `json:"popularity,omitempty"`

	// Image 商品主图 URL（可选）
	Image string `json:"image,omitempty"`

	// Score 匹配总分，由打分节点写入
	Score float64 `json:"score"`

	// Breakdown 分项得分，由打分节点写入
	Breakdown *ScoreBreakdown `json:"breakdown,omitempty"`

	// Alternative 是否为策展阶段选出的风格替代位
	Alternative bool `json:"alternative,omitempty"`

	// Labels 链路标记（命中来源、过滤原因、策展决策等）
	Labels map[string]utils.Label `json:"labels,omitempty"`
}

// ScoreBreakdown 是匹配总分的分项构成，各分量均在 [0, 1] 区间。
type ScoreBreakdown struct {
	Color        float64 `json:"color"`
	Texture      float64 `json:"texture"`
	Availability float64 `json:"availability"`
	Popularity   float64 `json:"popularity"`
	Construction float64 `json:"construction"`
	Total        float64 `json:"total"`
}

func NewCandidate(id string) *Candidate {
	return &Candidate{
		ID:     id,
		Score:  0,
		Attrs:  make(map[string]string),
		Labels: make(map[string]utils.Label),
	}
}

// Attr 读取属性值，未设置时返回空字符串。
func (c *Candidate) Attr(key string) string {
	if c == nil || c.Attrs == nil {
		return ""
	}
	return c.Attrs[key]
}

// Family 把候选的颜色属性归一化为标准色族名，色族属性优先、
// 色号属性兜底；两者都无法归一化时返回空串。
func (c *Candidate) Family() string {
	if fam := colorspace.FamilyOf(c.Attr(AttrColorFamily)); fam != "" {
		return fam
	}
	return colorspace.FamilyOf(c.Attr(AttrShade))
}

// SetAttr 写入属性值；空值不写入，nil map 惰性初始化。
func (c *Candidate) SetAttr(key, value string) {
	if value == "" {
		return
	}
	if c.Attrs == nil {
		c.Attrs = make(map[string]string)
	}
	c.Attrs[key] = value
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (c *Candidate) GetLabel(key string) (utils.Label, bool) {
	if c.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := c.Labels[key]
	return lbl, ok
}
