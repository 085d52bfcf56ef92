package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/rushteam/matchkit/core"
)

// DefaultOpenAIModel 是默认的多模态模型。
const DefaultOpenAIModel = openai.GPT4oMini

// analyzePrompt 约束多模态模型的输出结构。
// 字段语义与 core.HairProfile 对齐；JSONObject 响应格式要求提示词中出现 "JSON"。
const analyzePrompt = `You are a hair analyst for a wig and hair extension store. ` +
	`Analyze the hair shown in the image (or described in the text) and respond with a single JSON object:
{"color_family": "blonde|brunette|black|red|gray|white|fantasy", "shade": "specific shade name, e.g. ash blonde", "undertone": "warm|cool|neutral", "lab": {"l": 0-100, "a": -128-127, "b": -128-127}, "length": "short|medium|long", "texture": "straight|wavy|curly|kinky", "confidence": 0.0-1.0}
Omit any field you cannot determine. Set confidence to your overall certainty.`

// OpenAIAnalyzer 通过多模态大模型（OpenAI 兼容 API）产出发况画像。
//
// 请求形态：
//   - 有图像时走 Vision：MultiContent = 文本 + base64 data URL 图像
//   - 仅有文本时走普通对话
//   - 响应格式约束为 JSON 对象，解析失败时截取首个 JSON 再试
//
// 上游是按配额限速的外部服务，客户端内置限速器避免触发 429；
// 配额不同的账号用 WithOpenAIRateLimit 调整。
type OpenAIAnalyzer struct {
	api     *openai.Client
	model   string
	limiter *rate.Limiter
}

// OpenAIConfig OpenAI 分析客户端配置
type OpenAIConfig struct {
	// BaseURL 自定义 API 地址（可选，用于 OpenAI 兼容服务）
	BaseURL string
	// Model 模型名称，默认 DefaultOpenAIModel
	Model string
	// Limiter 请求限速器；nil 表示不限速
	Limiter *rate.Limiter
	// HTTPClient 自定义 HTTP 客户端（可选）
	HTTPClient *http.Client
}

// OpenAIOption 配置 OpenAI 分析客户端
type OpenAIOption func(*OpenAIConfig)

// WithOpenAIBaseURL 设置 API 地址（OpenAI 兼容服务）
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(c *OpenAIConfig) {
		c.BaseURL = baseURL
	}
}

// WithOpenAIModel 设置模型名称
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *OpenAIConfig) {
		if model != "" {
			c.Model = model
		}
	}
}

// WithOpenAIRateLimit 设置请求限速器；nil 表示不限速
func WithOpenAIRateLimit(limiter *rate.Limiter) OpenAIOption {
	return func(c *OpenAIConfig) {
		c.Limiter = limiter
	}
}

// WithOpenAIHTTPClient 设置自定义 HTTP 客户端
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(c *OpenAIConfig) {
		c.HTTPClient = client
	}
}

// NewOpenAIAnalyzer 创建多模态分析客户端。
func NewOpenAIAnalyzer(apiKey string, opts ...OpenAIOption) *OpenAIAnalyzer {
	cfg := &OpenAIConfig{
		Model: DefaultOpenAIModel,
		// 默认 2 QPS、突发 4，按保守配额设置
		Limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	return &OpenAIAnalyzer{
		api:     openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		limiter: cfg.Limiter,
	}
}

// Name 实现 core.Analyzer。
func (c *OpenAIAnalyzer) Name() string { return "analysis.openai" }

// Analyze 实现 core.Analyzer。
func (c *OpenAIAnalyzer) Analyze(ctx context.Context, req *core.AnalyzeRequest) (*core.HairProfile, error) {
	if req == nil || (len(req.Image) == 0 && req.Hint == "") {
		return nil, core.NewDomainError(core.ModuleAnalysis, core.ErrorCodeInvalidInput, "analysis: image or hint is required")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("analysis: rate limiter: %w", err)
		}
	}

	userMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.Image) > 0 {
		userText := "Analyze the hair in this photo and answer in JSON."
		if req.Hint != "" {
			userText += " Customer notes: " + req.Hint
		}
		mime := req.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(req.Image))
		userMsg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: userText},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	} else {
		userMsg.Content = "Analyze this hair description and answer in JSON: " + req.Hint
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analyzePrompt},
			userMsg,
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("analysis: openai returned no choices")
	}

	content := extractJSON(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("analysis: openai response is not JSON")
	}
	return decodeProfile([]byte(content))
}

// Close 实现 core.Analyzer。
func (c *OpenAIAnalyzer) Close() error {
	return nil
}

var _ core.Analyzer = (*OpenAIAnalyzer)(nil)
