package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/rushteam/matchkit/core"
)

// DefaultHTTPModel 是自建分析服务的默认模型名。
const DefaultHTTPModel = "hair-analyzer"

// HTTPAnalyzer 是自建视觉分析服务的客户端实现，用于从 HTTP 推理服务获取发况画像。
//
// 协议（类 KServe V1 REST）：
//   - Analyze: POST /v1/models/{model_name}:analyze
//   - 请求：{"image": "<base64>", "mime_type": "image/jpeg", "hint": "..."}
//   - 响应：发况画像 JSON（color_family/shade/undertone/lab/length/texture/confidence）
//   - Model Ready: GET /v1/models/{model_name}
//
// 使用场景：自部署的发色识别模型、兼容此协议的第三方视觉服务。
type HTTPAnalyzer struct {
	// Endpoint 服务根地址，如 "http://localhost:8000"
	Endpoint string
	// ModelName 模型名称，拼接在分析路径中
	ModelName string
	// Timeout 请求超时
	Timeout time.Duration
	// Auth 认证配置
	Auth *AuthConfig
	// limiter 请求限速器（可选，nil 表示不限速）
	limiter *rate.Limiter
	// httpClient 自定义 HTTP 客户端（可选）
	httpClient *http.Client
}

// NewHTTPAnalyzer 创建自建分析服务客户端。endpoint 为根地址（如 http://localhost:8000）。
func NewHTTPAnalyzer(endpoint string, opts ...HTTPOption) *HTTPAnalyzer {
	c := &HTTPAnalyzer{
		Endpoint:  endpoint,
		ModelName: DefaultHTTPModel,
		Timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}

// HTTPOption 配置 HTTP 分析客户端
type HTTPOption func(*HTTPAnalyzer)

// WithHTTPModel 设置模型名称
func WithHTTPModel(name string) HTTPOption {
	return func(c *HTTPAnalyzer) {
		if name != "" {
			c.ModelName = name
		}
	}
}

// WithHTTPTimeout 设置超时
func WithHTTPTimeout(timeout time.Duration) HTTPOption {
	return func(c *HTTPAnalyzer) {
		c.Timeout = timeout
		if c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPAuth 设置认证
func WithHTTPAuth(auth *AuthConfig) HTTPOption {
	return func(c *HTTPAnalyzer) {
		c.Auth = auth
	}
}

// WithHTTPRateLimit 设置请求限速器；nil 表示不限速
func WithHTTPRateLimit(limiter *rate.Limiter) HTTPOption {
	return func(c *HTTPAnalyzer) {
		c.limiter = limiter
	}
}

// WithHTTPClient 设置自定义 HTTP 客户端
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPAnalyzer) {
		c.httpClient = client
	}
}

// Name 实现 core.Analyzer。
func (c *HTTPAnalyzer) Name() string { return "analysis.http" }

// httpAnalyzeRequest 分析请求体
type httpAnalyzeRequest struct {
	// Image base64 编码的图像字节；为空表示纯文本分析
	Image string `json:"image,omitempty"`
	// MimeType 图像类型
	MimeType string `json:"mime_type,omitempty"`
	// Hint 辅助文本
	Hint string `json:"hint,omitempty"`
}

// Analyze 实现 core.Analyzer。
func (c *HTTPAnalyzer) Analyze(ctx context.Context, req *core.AnalyzeRequest) (*core.HairProfile, error) {
	if req == nil || (len(req.Image) == 0 && req.Hint == "") {
		return nil, core.NewDomainError(core.ModuleAnalysis, core.ErrorCodeInvalidInput, "analysis: image or hint is required")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("analysis: rate limiter: %w", err)
		}
	}

	body := httpAnalyzeRequest{Hint: req.Hint}
	if len(req.Image) > 0 {
		body.Image = base64.StdEncoding.EncodeToString(req.Image)
		body.MimeType = req.MimeType
		if body.MimeType == "" {
			body.MimeType = "image/jpeg"
		}
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("analysis: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:analyze", c.Endpoint, c.ModelName)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("analysis: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.addAuth(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analysis: error: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("analysis: read response: %w", err)
	}
	return decodeProfile(bodyBytes)
}

// Health 检查模型就绪状态：GET /v1/models/{model_name}。
func (c *HTTPAnalyzer) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s", c.Endpoint, c.ModelName)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("analysis: health create request: %w", err)
	}
	c.addAuth(httpReq)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("analysis: health request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("analysis: health failed: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// Close 实现 core.Analyzer。
func (c *HTTPAnalyzer) Close() error {
	return nil
}

func (c *HTTPAnalyzer) addAuth(req *http.Request) {
	if c.Auth == nil {
		return
	}
	switch c.Auth.Type {
	case "basic":
		req.SetBasicAuth(c.Auth.Username, c.Auth.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.Auth.Token)
	case "api_key":
		req.Header.Set("X-API-Key", c.Auth.APIKey)
	}
}

var _ core.Analyzer = (*HTTPAnalyzer)(nil)
