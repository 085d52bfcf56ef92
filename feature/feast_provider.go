package feature

import (
	"context"
	"strings"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/feast"
	"github.com/rushteam/matchkit/pkg/conv"
)

// DefaultEntityKey 是 Feast 实体行中商品 ID 的默认字段名。
const DefaultEntityKey = "product_id"

// DefaultFeastFeatures 是默认拉取的特征引用。
// 冒号后的短名决定落点：popularity 写入热度先验，in_stock 写入库存状态，
// 其余字符串特征写入同名商品属性（与 core.AttrXXX 键对齐）。
var DefaultFeastFeatures = []string{
	"product_stats:popularity",
	"product_stats:in_stock",
	"product_attrs:color_family",
	"product_attrs:shade",
	"product_attrs:texture",
	"product_attrs:length",
	"product_attrs:style",
	"product_attrs:construction",
}

// FeastProvider 是基于 Feast Feature Store 的特征服务实现，
// 把 feast.Client 适配为 core.FeatureService。
type FeastProvider struct {
	client    feast.Client
	entityKey string
	features  []string
}

// FeastProviderOption 配置 FeastProvider。
type FeastProviderOption func(*FeastProvider)

// WithEntityKey 自定义实体行中商品 ID 的字段名。
func WithEntityKey(key string) FeastProviderOption {
	return func(p *FeastProvider) {
		if key != "" {
			p.entityKey = key
		}
	}
}

// WithFeatures 自定义拉取的特征引用列表。
func WithFeatures(features []string) FeastProviderOption {
	return func(p *FeastProvider) {
		if len(features) > 0 {
			p.features = features
		}
	}
}

// NewFeastProvider 创建基于 Feast 的特征服务。
func NewFeastProvider(client feast.Client, opts ...FeastProviderOption) *FeastProvider {
	p := &FeastProvider{
		client:    client,
		entityKey: DefaultEntityKey,
		features:  DefaultFeastFeatures,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *FeastProvider) Name() string { return "feature.feast" }

// BatchGetProductFeatures 实现 core.FeatureService 接口。
func (p *FeastProvider) BatchGetProductFeatures(ctx context.Context, productIDs []string) (map[string]core.ProductFeatures, error) {
	out := make(map[string]core.ProductFeatures, len(productIDs))
	if p.client == nil || len(productIDs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(productIDs))
	entityRows := make([]map[string]interface{}, 0, len(productIDs))
	for _, id := range productIDs {
		if id == "" {
			continue
		}
		ids = append(ids, id)
		entityRows = append(entityRows, map[string]interface{}{p.entityKey: id})
	}
	if len(ids) == 0 {
		return out, nil
	}

	resp, err := p.client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   p.features,
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, err
	}

	for i, vec := range resp.FeatureVectors {
		if i >= len(ids) {
			break
		}
		f := toProductFeatures(vec.Values)
		if f.Attrs == nil && f.Popularity == nil && f.Available == nil {
			continue
		}
		out[ids[i]] = f
	}
	return out, nil
}

// Close 实现 core.FeatureService 接口。
func (p *FeastProvider) Close(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// toProductFeatures 把一行特征向量转换为商品特征。
func toProductFeatures(values map[string]interface{}) core.ProductFeatures {
	var f core.ProductFeatures
	for name, v := range values {
		short := name
		if idx := strings.LastIndex(name, ":"); idx >= 0 {
			short = name[idx+1:]
		}
		switch short {
		case "popularity":
			if val, ok := conv.ToFloat64(v); ok {
				f.Popularity = &val
			}
		case "in_stock", "available":
			if b, ok := v.(bool); ok {
				f.Available = &b
			} else if val, ok := conv.ToFloat64(v); ok {
				b := val > 0
				f.Available = &b
			}
		default:
			s, ok := v.(string)
			if !ok {
				continue
			}
			if norm := conv.NormalizeTerm(s); norm != "" {
				if f.Attrs == nil {
					f.Attrs = make(map[string]string)
				}
				f.Attrs[short] = norm
			}
		}
	}
	return f
}

// 确保 FeastProvider 实现了 core.FeatureService 接口
var _ core.FeatureService = (*FeastProvider)(nil)
