package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/conv"
)

// DefaultCatalogKey 是目录文档在 Store 中的默认 key。
const DefaultCatalogKey = "catalog:products"

// Catalog 是目录检索源：从 Store 读取商品目录 JSON 文档并解析为候选集。
// 目录文档由上游 ETL 写入，形如 {"products": [...]}。
//
// 解析是逐条宽松的：
//   - ID 缺失时回退 handle，两者都缺失才整条跳过
//   - 价格字段类型不稳定（数字/字符串/带货币符号），统一宽松解析，失败按 0
//   - 属性词统一规范化后写入 Attrs，下游按 core.AttrXXX 键读取
//
// Catalog 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Catalog struct {
	Store core.Store
	Key   string // 目录文档 key，空值使用 DefaultCatalogKey
}

func (r *Catalog) Name() string        { return "retrieval.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRetrieval }

// Process 实现 Node 接口，直接调用 Retrieve。
func (r *Catalog) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Retrieve(ctx, mctx)
}

// Retrieve 实现 Source 接口。
func (r *Catalog) Retrieve(
	ctx context.Context,
	_ *core.MatchContext,
) ([]*core.Candidate, error) {
	if r.Store == nil {
		return nil, nil
	}
	key := r.Key
	if key == "" {
		key = DefaultCatalogKey
	}

	data, err := r.Store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			// 目录尚未初始化：空候选集是合法结果
			return nil, nil
		}
		return nil, err
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			"catalog: malformed catalog document: "+err.Error())
	}

	out := make([]*core.Candidate, 0, len(doc.Products))
	for _, p := range doc.Products {
		c := p.toCandidate()
		if c == nil {
			// ID 与 handle 都缺失的脏数据整条跳过，不中断整批
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// catalogDocument 对应目录文档的顶层结构。
type catalogDocument struct {
	Products []catalogProduct `json:"products"`
}

// catalogProduct 是目录中单个商品的宽松解析结构。
// 真实导出数据里 id 和 price 的类型不稳定（数字或字符串），用 any 承接后逐条兜底。
type catalogProduct struct {
	ID           any      `json:"id"`
	Handle       string   `json:"handle"`
	Title        string   `json:"title"`
	Vendor       string   `json:"vendor"`
	Price        any      `json:"price"`
	Available    *bool    `json:"available"`
	Popularity   *float64 `json:"popularity"`
	Image        string   `json:"image"`
	ColorFamily  string   `json:"color_family"`
	Shade        string   `json:"shade"`
	Undertone    string   `json:"undertone"`
	Texture      string   `json:"texture"`
	Length       string   `json:"length"`
	Style        string   `json:"style"`
	Construction string   `json:"construction"`
}

func (p *catalogProduct) toCandidate() *core.Candidate {
	id := p.candidateID()
	if id == "" {
		return nil
	}

	c := core.NewCandidate(id)
	c.Handle = strings.TrimSpace(p.Handle)
	c.Title = strings.TrimSpace(p.Title)
	c.Vendor = strings.TrimSpace(p.Vendor)
	c.Price = conv.ParsePrice(p.Price)
	c.Available = p.Available
	c.Popularity = p.Popularity
	c.Image = strings.TrimSpace(p.Image)

	c.SetAttr(core.AttrColorFamily, conv.NormalizeTerm(p.ColorFamily))
	c.SetAttr(core.AttrShade, conv.NormalizeTerm(p.Shade))
	c.SetAttr(core.AttrUndertone, conv.NormalizeTerm(p.Undertone))
	c.SetAttr(core.AttrTexture, conv.NormalizeTerm(p.Texture))
	c.SetAttr(core.AttrLength, conv.NormalizeTerm(p.Length))
	c.SetAttr(core.AttrStyle, conv.NormalizeTerm(p.Style))
	c.SetAttr(core.AttrConstruction, conv.NormalizeTerm(p.Construction))
	return c
}

// candidateID 解析商品 ID：字符串直接用，数字按整数格式化，缺失回退 handle。
func (p *catalogProduct) candidateID() string {
	if s, ok := p.ID.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	if f, ok := conv.ToFloat64(p.ID); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return strings.TrimSpace(p.Handle)
}
