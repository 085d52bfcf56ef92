package core

import "github.com/rushteam/matchkit/pkg/utils"

// MatchContext 承载一次匹配请求的目标/场景信息，贯穿整个 Pipeline 透传。
type MatchContext struct {
	// RequestID 请求标识，用于日志关联与结果缓存 key 的组成部分之外的追踪
	RequestID string

	// UserID 用户标识（可选，string 类型通用支持所有 ID 格式）
	UserID string

	// Scene 业务场景（如 "pdp"、"quiz_result"、"upload_match"）
	Scene string

	// Target 匹配目标：理想商品的颜色/纹理/风格与硬性约束
	Target *MatchTarget

	// Labels 请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数（query、device_type、实验桶等）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (mctx *MatchContext) PutLabel(key string, lbl utils.Label) {
	if mctx.Labels == nil {
		mctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := mctx.Labels[key]; ok {
		mctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	mctx.Labels[key] = lbl
}

// GetLabel 读取请求级 Label。
func (mctx *MatchContext) GetLabel(key string) (utils.Label, bool) {
	if mctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := mctx.Labels[key]
	return lbl, ok
}
