// Package matchkit 是一个商品匹配推荐工具包（Match Kit）：
// 面向发型/假发电商，把视觉分析得到的发质画像变成一小组多样化的商品推荐。
//
// 设计要点：
// - Pipeline-first: 匹配逻辑通过 Node 串联（Retrieval → Filter → Score → Curate）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 自定义 Node 即可插拔扩展（本地打分或远程分析服务均可）
package matchkit

import "github.com/rushteam/matchkit/pipeline"

// 轻量 facade：便于用户直接 import "matchkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRetrieval   = pipeline.KindRetrieval
	KindFilter      = pipeline.KindFilter
	KindScore       = pipeline.KindScore
	KindCurate      = pipeline.KindCurate
	KindPostProcess = pipeline.KindPostProcess
)
