package match

import (
	"bytes"
	"context"
	"time"

	"github.com/rushteam/matchkit/cache"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/filter"
	"github.com/rushteam/matchkit/model"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/rank"
	"github.com/rushteam/matchkit/rerank"
)

// 编排层默认参数
const (
	// DefaultLimit 默认返回的结果数量
	DefaultLimit = 6

	// DefaultCacheTTL 匹配结果与发况画像的默认缓存时长
	DefaultCacheTTL = 15 * time.Minute

	// DefaultAnalyzeTimeout 单次外部分析调用的默认超时
	DefaultAnalyzeTimeout = 10 * time.Second

	// DefaultMinConfidence 视觉画像可用的默认置信度门限
	DefaultMinConfidence = 0.35
)

// Config 是匹配编排器的配置。零值字段取默认值。
type Config struct {
	// Weights 打分权重；零值使用 core.DefaultWeights()
	Weights core.ScoringWeights

	// Limit 默认返回数量，调用方传 limit <= 0 时生效
	Limit int

	// CacheTTL 匹配结果与画像的缓存时长；负值表示永不过期
	CacheTTL time.Duration

	// AnalyzeTimeout 单次外部分析调用的超时；负值表示不限时
	AnalyzeTimeout time.Duration

	// MinConfidence 视觉画像可用的置信度门限，低于门限触发关键词回退；
	// 负值表示不设门限
	MinConfidence float64
}

// Matcher 是匹配编排器：把过滤、打分、策展组合成一条固定链路，
// 并在外层叠加结果缓存、并发去重与图像分析回退。
//
// 链路（对应一次完整匹配）：
//
//	候选集 → 硬性过滤（长度/库存/价格）→ 五维打分排序 → 多样性策展 Top-N
//
// 图像入口在链路之前多一步：图像 → 发况画像 → 匹配目标。
// 画像分析走外部服务，失败或置信度不足时回退到文本关键词识别；
// 两者都失败才对外报错（core.ErrNoProfile）。
type Matcher struct {
	cfg      Config
	scorer   model.Scorer
	analyzer core.Analyzer

	matches  *cache.Group[[]*core.Candidate]
	profiles *cache.Group[*core.HairProfile]
}

// Option 配置 Matcher
type Option func(*Matcher)

// WithAnalyzer 设置发况分析后端（图像入口需要；不设置时仅有关键词回退）
func WithAnalyzer(a core.Analyzer) Option {
	return func(m *Matcher) {
		m.analyzer = a
	}
}

// WithScorer 替换默认的五维打分器
func WithScorer(s model.Scorer) Option {
	return func(m *Matcher) {
		m.scorer = s
	}
}

// New 创建匹配编排器。权重非法（负分量或总和不为 1）时返回错误。
func New(cfg Config, opts ...Option) (*Matcher, error) {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.AnalyzeTimeout == 0 {
		cfg.AnalyzeTimeout = DefaultAnalyzeTimeout
	}
	if cfg.MinConfidence == 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if (cfg.Weights == core.ScoringWeights{}) {
		cfg.Weights = core.DefaultWeights()
	}

	m := &Matcher{
		cfg:      cfg,
		matches:  cache.NewGroup[[]*core.Candidate](),
		profiles: cache.NewGroup[*core.HairProfile](),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.scorer == nil {
		scorer, err := model.NewMatchScorer(cfg.Weights)
		if err != nil {
			return nil, err
		}
		m.scorer = scorer
	}
	return m, nil
}

// Match 执行一次完整匹配：过滤、打分、策展，返回至多 limit 个结果。
//
//   - target 为 nil 返回 INVALID_INPUT：无目标的匹配没有意义，
//     调用方应该先走画像分析或问卷
//   - 候选集为空返回空列表，不算错误
//   - limit <= 0 时使用配置的默认数量
//
// 相同输入必然产出相同输出；过滤可能清空候选集，此时返回空列表。
func (m *Matcher) Match(
	ctx context.Context,
	target *core.MatchTarget,
	candidates []*core.Candidate,
	limit int,
) ([]*core.Candidate, error) {
	if target == nil {
		return nil, core.NewDomainError(core.ModuleMatch, core.ErrorCodeInvalidInput, "match: target is nil")
	}
	if len(candidates) == 0 {
		return []*core.Candidate{}, nil
	}
	if limit <= 0 {
		limit = m.cfg.Limit
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.FilterNode{Filters: filter.FromTarget(target)},
			&rank.MatchNode{Scorer: m.scorer},
			&rerank.Curator{N: limit},
		},
	}
	mctx := &core.MatchContext{
		Scene:  "match",
		Target: target,
	}
	return p.Run(ctx, mctx, candidates)
}

// MatchCached 是 Match 的缓存版本：按目标、候选 ID 序列与 limit
// 计算内容 key，相同请求在 TTL 内直接复用结果，并发的相同请求
// 合并为一次计算。
//
// 缓存命中返回的是共享切片，调用方不得修改返回结果。
func (m *Matcher) MatchCached(
	ctx context.Context,
	target *core.MatchTarget,
	candidates []*core.Candidate,
	limit int,
) ([]*core.Candidate, error) {
	if target == nil {
		return nil, core.NewDomainError(core.ModuleMatch, core.ErrorCodeInvalidInput, "match: target is nil")
	}
	if len(candidates) == 0 {
		return []*core.Candidate{}, nil
	}
	if limit <= 0 {
		limit = m.cfg.Limit
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			ids = append(ids, c.ID)
		}
	}
	key := cache.MatchKey(target, ids, limit)

	return m.matches.Do(ctx, key, m.cfg.CacheTTL, func(ctx context.Context) ([]*core.Candidate, error) {
		return m.Match(ctx, target, candidates, limit)
	})
}

// AnalyzeImage 产出发况画像，带缓存与并发去重：相同图像与提示文本
// 的请求按内容哈希合并，TTL 内重复请求不触发外部分析。
//
// 画像来源按优先级：
//  1. 外部分析后端（置信度达到门限才采用）
//  2. 提示文本的关键词识别
//  3. 都失败返回 core.ErrNoProfile
func (m *Matcher) AnalyzeImage(ctx context.Context, req *core.AnalyzeRequest) (*core.HairProfile, error) {
	if req == nil || (len(req.Image) == 0 && req.Hint == "") {
		return nil, core.NewDomainError(core.ModuleMatch, core.ErrorCodeInvalidInput, "match: image or hint is required")
	}

	key := analyzeKey(req)
	return m.profiles.Do(ctx, key, m.cfg.CacheTTL, func(ctx context.Context) (*core.HairProfile, error) {
		return m.analyze(ctx, req)
	})
}

// analyze 执行一次真实分析：外部后端优先，失败或低置信度时走关键词回退。
func (m *Matcher) analyze(ctx context.Context, req *core.AnalyzeRequest) (*core.HairProfile, error) {
	if m.analyzer != nil {
		actx := ctx
		if m.cfg.AnalyzeTimeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, m.cfg.AnalyzeTimeout)
			defer cancel()
		}
		profile, err := m.analyzer.Analyze(actx, req)
		if err == nil && profile != nil && profile.Confidence >= m.cfg.MinConfidence {
			return profile, nil
		}
		// 分析失败与低置信度同等对待：画像不可信就不用
	}

	if fallback := core.ProfileFromText(req.Hint); fallback != nil {
		return fallback, nil
	}
	return nil, core.ErrNoProfile
}

// MatchByImage 是图像入口的端到端编排：分析图像得到画像，
// 转为匹配目标后执行缓存匹配。
func (m *Matcher) MatchByImage(
	ctx context.Context,
	req *core.AnalyzeRequest,
	candidates []*core.Candidate,
	limit int,
) ([]*core.Candidate, error) {
	profile, err := m.AnalyzeImage(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.MatchCached(ctx, profile.Target(), candidates, limit)
}

// Stats 是编排器的缓存命中统计。
type Stats struct {
	// Matches 匹配结果缓存的统计
	Matches cache.Stats `json:"matches"`
	// Profiles 发况画像缓存的统计
	Profiles cache.Stats `json:"profiles"`
}

// Stats 返回缓存命中统计快照。
func (m *Matcher) Stats() Stats {
	return Stats{
		Matches:  m.matches.Stats(),
		Profiles: m.profiles.Stats(),
	}
}

// Close 释放分析后端连接。
func (m *Matcher) Close() error {
	if m.analyzer != nil {
		return m.analyzer.Close()
	}
	return nil
}

// analyzeKey 计算分析请求的内容哈希 key：图像字节与提示文本都参与。
func analyzeKey(req *core.AnalyzeRequest) string {
	var b bytes.Buffer
	b.Write(req.Image)
	b.WriteByte(0)
	b.WriteString(req.Hint)
	return cache.HashBytes(b.Bytes())
}

// Rank 是无状态的一次性匹配入口：按给定权重过滤、打分、策展。
// 需要缓存、并发去重或图像分析时用 Matcher。
func Rank(
	ctx context.Context,
	target *core.MatchTarget,
	candidates []*core.Candidate,
	weights core.ScoringWeights,
	limit int,
) ([]*core.Candidate, error) {
	m, err := New(Config{Weights: weights, Limit: limit})
	if err != nil {
		return nil, err
	}
	return m.Match(ctx, target, candidates, limit)
}
