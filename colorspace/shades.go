package colorspace

import (
	"sort"
	"strings"
)

// shadeChips 是标准色号表：色号名称 -> 代表色的十六进制色卡。
// 色卡在包加载时统一转换为 Lab，供色号名称到感知色值的查表使用。
// 表中同时包含色族名（blonde、brunette 等），使只有色族信息的
// 查询也能拿到一个代表性的感知色值。
var shadeChips = map[string]string{
	// 金色系
	"platinum blonde":   "#ece5d8",
	"ash blonde":        "#cbbfa4",
	"golden blonde":     "#e0b860",
	"honey blonde":      "#d2a54f",
	"strawberry blonde": "#d89b72",
	"dirty blonde":      "#b89a6a",
	"dark blonde":       "#a08452",
	"platinum":          "#dcdce2",

	// 棕色系
	"light brown":     "#96714c",
	"medium brown":    "#6b4a2b",
	"chestnut brown":  "#7a4b26",
	"chocolate brown": "#5a3a1e",
	"dark brown":      "#4a2e18",
	"espresso":        "#3b2314",
	"caramel":         "#b07a45",

	// 黑色系
	"jet black":     "#0d0d0f",
	"natural black": "#1a1714",
	"soft black":    "#241f1c",
	"blue black":    "#10101c",

	// 红色系
	"auburn":     "#8c3b1d",
	"copper":     "#b85c2b",
	"ginger":     "#c26a34",
	"burgundy":   "#6d1f2c",
	"cherry red": "#8c1c24",

	// 灰白系
	"silver":          "#c0c0c8",
	"salt and pepper": "#6f6f72",

	// 彩色系
	"lavender":    "#b57edc",
	"pastel pink": "#f4c2d7",
	"rose gold":   "#d8a7a0",
	"teal":        "#3a8d8c",

	// 色族级色卡（色号缺失时的兜底）
	"blonde":   "#c9a86a",
	"brunette": "#5f4330",
	"black":    "#161311",
	"red":      "#9c3d20",
	"gray":     "#8e8e93",
	"white":    "#f5f5f2",
}

var (
	// shadeLabs 是色号名称 -> Lab 的查表结果，包加载时构建。
	shadeLabs map[string]Lab

	// shadeNames 按长度降序排列的色号名称，用于子串匹配时优先命中更具体的色号
	//（"ash blonde" 先于 "blonde"）。
	shadeNames []string
)

func init() {
	shadeLabs = make(map[string]Lab, len(shadeChips))
	shadeNames = make([]string, 0, len(shadeChips))
	for name, hex := range shadeChips {
		lab, err := FromHex(hex)
		if err != nil {
			// 色卡是包内常量，解析失败说明表本身写错了
			panic("colorspace: invalid shade chip " + name + ": " + hex)
		}
		shadeLabs[name] = lab
		shadeNames = append(shadeNames, name)
	}
	sort.Slice(shadeNames, func(i, j int) bool {
		if len(shadeNames[i]) != len(shadeNames[j]) {
			return len(shadeNames[i]) > len(shadeNames[j])
		}
		return shadeNames[i] < shadeNames[j]
	})
}

// LookupShade 按色号名称查询感知色值。
// 先做精确匹配；未命中时做双向整词子串匹配（"ash blonde 60" 命中
// "ash blonde"，"honey" 命中 "honey blonde"），多个候选时优先更长
//（更具体）的色号。整词边界避免 "layered" 误命中 "red" 这类碎片匹配。
func LookupShade(name string) (Lab, bool) {
	q := NormalizeShade(name)
	if q == "" {
		return Lab{}, false
	}
	if lab, ok := shadeLabs[q]; ok {
		return lab, true
	}
	if key, ok := findShadeName(q); ok {
		return shadeLabs[key], true
	}
	for _, key := range shadeNames {
		if containsWords(key, q) {
			return shadeLabs[key], true
		}
	}
	return Lab{}, false
}

// FindShade 在一段规范化前的自由文本中查找色号名称（整词匹配，长名优先），
// 返回命中的色号及其感知色值。用于从商品标题/用户描述中识别颜色。
func FindShade(text string) (string, Lab, bool) {
	q := NormalizeShade(text)
	if q == "" {
		return "", Lab{}, false
	}
	if key, ok := findShadeName(q); ok {
		return key, shadeLabs[key], true
	}
	return "", Lab{}, false
}

// findShadeName 在已规范化的查询中按整词匹配色号名，长名优先。
func findShadeName(q string) (string, bool) {
	for _, key := range shadeNames {
		if containsWords(q, key) {
			return key, true
		}
	}
	return "", false
}

// containsWords 判断 needle 是否以整词序列出现在 haystack 中。
// 两侧均已空白规范化，补空格后做子串判断即可。
func containsWords(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// Shades 返回色号表中的全部色号名称（长度降序）。
func Shades() []string {
	out := make([]string, len(shadeNames))
	copy(out, shadeNames)
	return out
}

// NormalizeShade 规范化色号/色族名称：小写、去首尾空白、折叠连续空白、
// 连字符统一为空格。
func NormalizeShade(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
