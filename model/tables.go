package model

// 纹理打分常量：精确匹配 1.0，兼容表命中 0.7，否则 0.2。
const (
	texturePartialScore = 0.7
	textureFloorScore   = 0.2
)

// textureCompat 是纹理兼容表。表按目标纹理索引，值为可得部分分的
// 候选纹理集合；条目双向登记，保证 compat(a,b) == compat(b,a)。
var textureCompat = map[string][]string{
	"straight":   {"sleek", "smooth", "silky"},
	"sleek":      {"straight"},
	"smooth":     {"straight"},
	"silky":      {"straight"},
	"wavy":       {"loose curl", "beachy", "body wave"},
	"beachy":     {"wavy"},
	"body wave":  {"wavy"},
	"curly":      {"loose curl", "spiral", "ringlet"},
	"spiral":     {"curly"},
	"ringlet":    {"curly"},
	"loose curl": {"wavy", "curly"},
	"kinky":      {"coily", "afro"},
	"coily":      {"kinky"},
	"afro":       {"kinky"},
}

// constructionUnknownScore 是工艺档位未知时的中性分。
const constructionUnknownScore = 0.5

// constructionTiers 是假发工艺档位的固定打分表，键为规范化后的档位名。
// 全蕾丝手工最优，机制基础款最低；未登记档位取中性分。
var constructionTiers = map[string]float64{
	"full lace":    1.0,
	"lace front":   0.9,
	"monofilament": 0.8,
	"hand tied":    0.7,
	"basic":        0.3,
}

// textureCompatible 判断候选纹理是否与目标纹理兼容（可得部分分）。
// 两个入参都应已做过 conv.NormalizeTerm 规范化。
func textureCompatible(target, candidate string) bool {
	for _, compat := range textureCompat[target] {
		if compat == candidate {
			return true
		}
	}
	return false
}

// constructionScore 按工艺档位查表打分，入参应已做过 conv.NormalizeTerm 规范化。
func constructionScore(tier string) float64 {
	if score, ok := constructionTiers[tier]; ok {
		return score
	}
	return constructionUnknownScore
}
