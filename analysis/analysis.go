package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/conv"
)

// AuthConfig 认证配置
type AuthConfig struct {
	Type     string // "basic", "bearer", "api_key"
	Username string
	Password string
	Token    string
	APIKey   string
}

// decodeProfile 将分析后端返回的 JSON 解析为发况画像。
//
// 解析后做统一清洗：
//   - 色族/色号/底调/长度/纹理做词形规范化（小写、连字符转空格），
//     保证与色号表、打分器的词表对齐
//   - 置信度截断到 [0, 1]
//   - 来源固定标记为视觉分析
//
// 所有维度都为空的画像视为无效（后端没看出任何东西），返回错误，
// 由调用方走关键词回退。
func decodeProfile(data []byte) (*core.HairProfile, error) {
	var p core.HairProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("analysis: parse profile: %w", err)
	}

	p.ColorFamily = conv.NormalizeTerm(p.ColorFamily)
	p.Shade = conv.NormalizeTerm(p.Shade)
	p.Undertone = conv.NormalizeTerm(p.Undertone)
	p.Length = conv.NormalizeTerm(p.Length)
	p.Texture = conv.NormalizeTerm(p.Texture)

	if p.Confidence < 0 {
		p.Confidence = 0
	} else if p.Confidence > 1 {
		p.Confidence = 1
	}
	p.Source = core.ProfileSourceVision

	if p.ColorFamily == "" && p.Shade == "" && p.Color == nil && p.Length == "" && p.Texture == "" {
		return nil, core.NewDomainError(core.ModuleAnalysis, core.ErrorCodeInvalidInput, "analysis: profile has no usable fields")
	}
	return &p, nil
}

// extractJSON 从模型输出中截取首个 JSON 对象。
// 部分后端不遵守 JSON 输出约束，会包一层 markdown 代码块或附带说明文字。
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
