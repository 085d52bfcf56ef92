package core

import (
	"strings"
	"unicode"

	"github.com/rushteam/matchkit/colorspace"
)

// HairProfile 是发况画像：图像分析或文本识别产出的发色/长度/纹理描述。
//
// 一句话定义：发况画像 = 匹配 Pipeline 的输入侧抽象，
// 不关心画像从何而来（视觉模型、关键词识别、问卷），只关心字段语义。
//
// 设计要点：
//  维度          作用
//  色族/色号     颜色打分核心
//  感知色值      精确色彩比对（缺失时退化为色族比对）
//  长度/纹理     过滤与纹理打分
//  置信度        低置信度时触发关键词回退
type HairProfile struct {
	// ColorFamily 色族（"blonde" / "brunette" / "black" / "red" / "gray" / "white" / "fantasy"）
	ColorFamily string `json:"color_family,omitempty"`

	// Shade 色号名称（如 "ash blonde"），可选
	Shade string `json:"shade,omitempty"`

	// Undertone 冷暖底调（"warm" / "cool" / "neutral"），可选
	Undertone string `json:"undertone,omitempty"`

	// Color 感知色值，可选；缺失时由 Shade 查色号表补齐
	Color *colorspace.Lab `json:"lab,omitempty"`

	// Length 长度档位（"short" / "medium" / "long"），可选
	Length string `json:"length,omitempty"`

	// Texture 纹理（"straight" / "wavy" / "curly" / "kinky"），可选
	Texture string `json:"texture,omitempty"`

	// Confidence 分析置信度 [0, 1]
	Confidence float64 `json:"confidence"`

	// Source 画像来源，见 ProfileSourceXXX 常量
	Source string `json:"source,omitempty"`
}

// 画像来源常量
const (
	ProfileSourceVision  = "vision"  // 视觉模型分析
	ProfileSourceKeyword = "keyword" // 文本关键词识别
)

// keywordProfileConfidence 关键词回退画像的固定置信度。
// 回退画像不参与置信度门限判断，此值仅用于透出。
const keywordProfileConfidence = 0.4

// Target 将画像转换为匹配目标。
// 感知色值缺失时按色号查表补齐；色号也无法解析时仅保留色族比对。
func (p *HairProfile) Target() *MatchTarget {
	if p == nil {
		return nil
	}
	t := &MatchTarget{
		ColorFamily: p.ColorFamily,
		Shade:       p.Shade,
		Undertone:   p.Undertone,
		Texture:     p.Texture,
	}
	if p.Color != nil {
		c := *p.Color
		t.Color = &c
	} else if p.Shade != "" {
		if lab, ok := colorspace.LookupShade(p.Shade); ok {
			t.Color = &lab
		}
	}
	if t.ColorFamily == "" && p.Shade != "" {
		t.ColorFamily = colorspace.FamilyOf(p.Shade)
	}
	if p.Length != "" {
		t.Lengths = []string{p.Length}
	}
	return t
}

// 长度/纹理/底调的关键词识别表：词 -> 规范档位。
var (
	lengthKeywords = map[string]string{
		"short": "short", "pixie": "short", "bob": "short", "cropped": "short",
		"medium": "medium", "shoulder": "medium", "lob": "medium", "collarbone": "medium",
		"long": "long", "waist": "long",
	}
	textureKeywords = map[string]string{
		"straight": "straight", "sleek": "straight", "silky": "straight",
		"wavy": "wavy", "wave": "wavy", "waves": "wavy", "beachy": "wavy",
		"curly": "curly", "curl": "curly", "curls": "curly", "ringlet": "curly", "spiral": "curly",
		"kinky": "kinky", "coily": "kinky", "coils": "kinky", "afro": "kinky",
	}
	undertoneKeywords = map[string]string{
		"warm": "warm", "cool": "cool", "neutral": "neutral",
	}
)

// ProfileFromText 从自由文本（商品标题、用户描述、文件名）中识别
// 发色/长度/纹理关键词，构造回退画像。
//
// 识别顺序：
//  1. 色号：按色号表做子串匹配，优先更具体的色号
//  2. 色族：色号未命中时按色族同义词识别
//  3. 长度/纹理/底调：按词匹配
//
// 一个信号都识别不到时返回 nil，调用方据此判断回退失败。
func ProfileFromText(text string) *HairProfile {
	norm := colorspace.NormalizeShade(text)
	if norm == "" {
		return nil
	}

	p := &HairProfile{
		Confidence: keywordProfileConfidence,
		Source:     ProfileSourceKeyword,
	}

	if name, _, ok := colorspace.FindShade(norm); ok {
		p.Shade = name
		p.ColorFamily = colorspace.FamilyOf(name)
	}
	if p.ColorFamily == "" {
		p.ColorFamily = colorspace.FamilyOf(norm)
	}

	for _, tok := range tokenize(norm) {
		if p.Length == "" {
			if v, ok := lengthKeywords[tok]; ok {
				p.Length = v
			}
		}
		if p.Texture == "" {
			if v, ok := textureKeywords[tok]; ok {
				p.Texture = v
			}
		}
		if p.Undertone == "" {
			if v, ok := undertoneKeywords[tok]; ok {
				p.Undertone = v
			}
		}
	}

	if p.Shade == "" && p.ColorFamily == "" && p.Length == "" && p.Texture == "" {
		return nil
	}
	return p
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
