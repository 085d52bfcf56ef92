package core

import "github.com/rushteam/matchkit/colorspace"

// MatchTarget 描述理想商品：期望的发色/纹理/风格偏好与硬性约束。
// 软偏好（颜色、纹理）参与打分，硬性约束（长度、价格、库存）参与过滤。
type MatchTarget struct {
	// Color 目标发色的感知色值；nil 表示仅有色族信息，打分退化为色族比对
	Color *colorspace.Lab

	// ColorFamily 目标色族（如 "blonde"），Color 缺失时的回退依据
	ColorFamily string

	// Families 可接受的色族列表；为空时仅接受 ColorFamily
	Families []string

	// Shade 目标色号名称（如 "ash blonde"），可选
	Shade string

	// Undertone 冷暖底调（"warm" / "cool" / "neutral"），可选
	Undertone string

	// Texture 目标纹理（"straight" / "wavy" / "curly" / "kinky"）
	Texture string

	// Style 目标风格（如 "bob"、"layered"），可选，策展阶段用于风格多样性
	Style string

	// Lengths 可接受的长度档位；为空表示不限
	Lengths []string

	// PriceMin / PriceMax 价格闭区间；nil 表示对应方向无界
	PriceMin *float64
	PriceMax *float64

	// AvailableOnly 是否仅保留明确有库存的商品
	AvailableOnly bool
}

// AcceptedFamilies 返回规范化去重后的可接受色族集合。
// Families 为空时退化为 [ColorFamily]；无法规范化的名称被丢弃。
func (t *MatchTarget) AcceptedFamilies() []string {
	if t == nil {
		return nil
	}
	raw := t.Families
	if len(raw) == 0 && t.ColorFamily != "" {
		raw = []string{t.ColorFamily}
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		fam := colorspace.FamilyOf(name)
		if fam == "" {
			continue
		}
		if _, ok := seen[fam]; ok {
			continue
		}
		seen[fam] = struct{}{}
		out = append(out, fam)
	}
	return out
}

// HasColorSignal 判断目标是否携带任何颜色信息（感知色值或色族）。
func (t *MatchTarget) HasColorSignal() bool {
	if t == nil {
		return false
	}
	return t.Color != nil || t.ColorFamily != "" || len(t.Families) > 0
}
