package feast

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Client 是 Feast Feature Store 的客户端接口。
//
// Feast 是一个开源的 Feature Store。离线管道把商品的热度先验、库存
// 状态等特征物化到在线存储，匹配链路在打分前通过此接口实时拉取。
//
// 使用方式：
//   - feature.NewFeastProvider 把此接口适配为 core.FeatureService
//   - 自行实现此接口可以替换传输层（参考 GrpcClient）
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时打分前的特征补齐）
	//
	// 参数：
	//   - features: 特征名称列表，例如 ["product_stats:popularity"]
	//   - entityRows: 实体行，例如 [{"product_id": "w-100"}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["product_stats:popularity", "product_stats:in_stock"]
	Features []string

	// EntityRows 实体行，例如 [{"product_id": "w-100"}, {"product_id": "w-101"}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，默认取客户端配置）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为请求中的特征名称；缺失的特征不出现
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientOption Feast 客户端配置选项
type ClientOption func(*ClientConfig)

// ClientConfig Feast 客户端配置
type ClientConfig struct {
	// Endpoint 服务端点
	Endpoint string

	// Project 项目名称
	Project string

	// Timeout 单次请求超时时间
	Timeout time.Duration

	// Auth 认证信息
	Auth *AuthConfig
}

// AuthConfig 认证配置
type AuthConfig struct {
	// Type 认证类型：目前支持 static（gRPC 静态 Token 认证）
	Type string

	// Token Token（static auth）
	Token string
}

// WithTimeout 配置选项：设置单次请求超时时间
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithAuth 配置选项：设置认证信息
func WithAuth(auth *AuthConfig) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = auth
	}
}

// NewClient 按端点创建客户端，是推荐的创建方式。
//
// 示例：
//
//	client, err := feast.NewClient("localhost:6565", "hair_commerce")
func NewClient(endpoint, project string, opts ...ClientOption) (Client, error) {
	host, port := parseEndpoint(endpoint)
	return NewGrpcClient(host, port, project, opts...)
}

// parseEndpoint 解析端点地址，返回 host 和 port。
func parseEndpoint(endpoint string) (string, int) {
	endpoint = strings.TrimPrefix(endpoint, "grpc://")

	parts := strings.Split(endpoint, ":")
	if len(parts) == 2 {
		port, err := strconv.Atoi(parts[1])
		if err == nil {
			return parts[0], port
		}
	}

	// 没有端口时返回 0，由 NewGrpcClient 使用默认端口
	return endpoint, 0
}
