package feature

import (
	"context"
	"encoding/json"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/conv"
)

// DefaultProductKeyPrefix 是商品特征在 Store 中的默认 key 前缀。
const DefaultProductKeyPrefix = "product:features:"

// StoreProvider 是基于 Store 的特征服务实现，采用适配器模式：
// 把 core.Store 适配为 core.FeatureService。
//
// 特征文档由离线管道按商品写入，key 为 "<前缀><商品 ID>"，JSON 格式：
//
//	{"color_family": "blonde", "shade": "ash blonde", "texture": "straight",
//	 "construction": "lace front", "popularity": 0.8, "available": true}
//
// 单条文档损坏只影响该商品（不出现在结果中），不中断整批请求。
type StoreProvider struct {
	store     core.Store
	keyPrefix string
}

// StoreProviderOption 配置 StoreProvider。
type StoreProviderOption func(*StoreProvider)

// WithProductKeyPrefix 自定义商品特征 key 前缀。
func WithProductKeyPrefix(prefix string) StoreProviderOption {
	return func(p *StoreProvider) {
		if prefix != "" {
			p.keyPrefix = prefix
		}
	}
}

// NewStoreProvider 创建基于 Store 的特征服务。
func NewStoreProvider(store core.Store, opts ...StoreProviderOption) *StoreProvider {
	p := &StoreProvider{
		store:     store,
		keyPrefix: DefaultProductKeyPrefix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *StoreProvider) Name() string { return "feature.store" }

// BatchGetProductFeatures 实现 core.FeatureService 接口。
func (p *StoreProvider) BatchGetProductFeatures(ctx context.Context, productIDs []string) (map[string]core.ProductFeatures, error) {
	out := make(map[string]core.ProductFeatures, len(productIDs))
	if p.store == nil || len(productIDs) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if id != "" {
			keys = append(keys, p.keyPrefix+id)
		}
	}

	kvs, err := p.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	for _, id := range productIDs {
		data, ok := kvs[p.keyPrefix+id]
		if !ok {
			continue
		}
		var doc productFeatureDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		out[id] = doc.toFeatures()
	}
	return out, nil
}

// Close 实现 core.FeatureService 接口。Store 的生命周期由调用方管理。
func (p *StoreProvider) Close(ctx context.Context) error {
	return nil
}

// productFeatureDoc 是商品特征文档的 JSON 结构。
type productFeatureDoc struct {
	ColorFamily  string   `json:"color_family,omitempty"`
	Shade        string   `json:"shade,omitempty"`
	Undertone    string   `json:"undertone,omitempty"`
	Texture      string   `json:"texture,omitempty"`
	Length       string   `json:"length,omitempty"`
	Style        string   `json:"style,omitempty"`
	Construction string   `json:"construction,omitempty"`
	Popularity   *float64 `json:"popularity,omitempty"`
	Available    *bool    `json:"available,omitempty"`
}

func (d *productFeatureDoc) toFeatures() core.ProductFeatures {
	attrs := make(map[string]string)
	put := func(key, val string) {
		if v := conv.NormalizeTerm(val); v != "" {
			attrs[key] = v
		}
	}
	put(core.AttrColorFamily, d.ColorFamily)
	put(core.AttrShade, d.Shade)
	put(core.AttrUndertone, d.Undertone)
	put(core.AttrTexture, d.Texture)
	put(core.AttrLength, d.Length)
	put(core.AttrStyle, d.Style)
	put(core.AttrConstruction, d.Construction)

	f := core.ProductFeatures{
		Popularity: d.Popularity,
		Available:  d.Available,
	}
	if len(attrs) > 0 {
		f.Attrs = attrs
	}
	return f
}

// 确保 StoreProvider 实现了 core.FeatureService 接口
var _ core.FeatureService = (*StoreProvider)(nil)
