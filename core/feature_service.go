package core

import "context"

// FeatureService 是商品特征服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feature）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 避免循环依赖：领域层不依赖基础设施层
//
// 使用场景：
//   - 补齐检索结果：畅销榜/向量检索只返回商品 ID，属性由特征服务补齐
//   - 热度注入：打分前为候选补充先验热度
//
// 注意：请求级上下文（场景、匹配目标）通过 MatchContext 传递，
// 而不是通过 FeatureService 获取。
//
// 实现：
//   - feature.StoreProvider 实现此接口（基于 core.Store）
//   - feature.FeastProvider 实现此接口（基于 Feast Feature Store）
//   - 其他特征后端也可以实现此接口
type FeatureService interface {
	// Name 返回特征服务名称（用于日志/监控）
	Name() string

	// BatchGetProductFeatures 批量获取商品特征（减少网络往返）。
	// 返回 map[productID]ProductFeatures；未命中的商品不出现在结果中。
	BatchGetProductFeatures(ctx context.Context, productIDs []string) (map[string]ProductFeatures, error)

	// Close 关闭特征服务，释放资源
	Close(ctx context.Context) error
}

// ProductFeatures 是特征服务返回的单个商品特征。
// 指针字段为 nil 表示特征缺失，由调用方决定回退策略。
type ProductFeatures struct {
	// Attrs 规范化商品属性，键见 AttrXXX 常量
	Attrs map[string]string

	// Popularity 先验热度 [0, 1]
	Popularity *float64

	// Available 库存状态
	Available *bool
}
