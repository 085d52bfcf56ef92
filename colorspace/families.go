package colorspace

import "strings"

// Family 是一个色族及其常见叫法。
// 声明顺序即匹配优先级："strawberry blonde" 先命中 blonde 而不是 red，
// "blue black" 先命中 black 而不是 fantasy。
type Family struct {
	Name     string
	Synonyms []string
}

// Families 是全部色族定义，顺序敏感。
var Families = []Family{
	{Name: "blonde", Synonyms: []string{
		"blonde", "blond", "golden", "honey", "platinum", "ash",
		"beige", "champagne", "butterscotch", "sandy",
	}},
	{Name: "brunette", Synonyms: []string{
		"brunette", "brunet", "brown", "chestnut", "chocolate",
		"mocha", "espresso", "caramel", "hazelnut",
	}},
	{Name: "black", Synonyms: []string{
		"black", "ebony", "jet", "raven", "onyx",
	}},
	{Name: "red", Synonyms: []string{
		"red", "auburn", "copper", "ginger", "strawberry",
		"burgundy", "cherry", "crimson", "mahogany",
	}},
	{Name: "gray", Synonyms: []string{
		"gray", "grey", "silver", "salt", "pepper", "smoke", "gunmetal",
	}},
	{Name: "white", Synonyms: []string{
		"white", "snow", "ivory", "pearl",
	}},
	{Name: "fantasy", Synonyms: []string{
		"pink", "purple", "blue", "green", "lavender", "teal",
		"lilac", "mint", "rose", "pastel", "ombre", "rainbow",
	}},
}

// familyIndex 是词 -> 色族名的倒排表，包加载时构建。
// 同一个词出现在多个色族时，保留声明顺序更靠前的色族。
var familyIndex map[string]string

func init() {
	familyIndex = make(map[string]string)
	for _, f := range Families {
		for _, syn := range f.Synonyms {
			if _, ok := familyIndex[syn]; !ok {
				familyIndex[syn] = f.Name
			}
		}
	}
}

// FamilyOf 识别一个色号/色族描述所属的色族，返回规范色族名。
// 按词切分后查倒排表（"strawberry blonde 60" -> blonde）；
// 多个词命中不同色族时，取 Families 声明顺序更靠前的。
// 识别不出时返回空字符串。
func FamilyOf(shade string) string {
	q := NormalizeShade(shade)
	if q == "" {
		return ""
	}
	if fam, ok := familyIndex[q]; ok {
		return fam
	}
	best := -1
	for _, tok := range strings.Fields(q) {
		fam, ok := familyIndex[tok]
		if !ok {
			continue
		}
		for i, f := range Families {
			if f.Name == fam && (best == -1 || i < best) {
				best = i
			}
		}
	}
	if best >= 0 {
		return Families[best].Name
	}
	return ""
}

// IsFamily 判断名称是否为规范色族名。
func IsFamily(name string) bool {
	q := NormalizeShade(name)
	for _, f := range Families {
		if f.Name == q {
			return true
		}
	}
	return false
}
