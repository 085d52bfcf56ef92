package retrieval

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
)

// DefaultPinnedKey 是置顶商品列表在 Store 中的默认 key。
const DefaultPinnedKey = "pinned:products"

// Pinned 是置顶检索源：运营人工指定的固定商品位（主推款、新品位、活动款）。
// - 如果配置了 Store，从 key 读取 JSON 数组（运营改置顶列表不用重新发布）
// - Store 为空或读取失败时，使用内存中的 IDs 作为 fallback
// 候选只带 ID，属性与库存由后续特征注入阶段补齐。
// Pinned 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Pinned struct {
	Store core.Store
	Key   string   // 置顶列表 key，例如 "pinned:homepage"，空值使用 DefaultPinnedKey
	IDs   []string // fallback 内存列表（按置顶顺序）
}

func (r *Pinned) Name() string        { return "retrieval.pinned" }
func (r *Pinned) Kind() pipeline.Kind { return pipeline.KindRetrieval }

// Process 实现 Node 接口，直接调用 Retrieve。
func (r *Pinned) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Retrieve(ctx, mctx)
}

// Retrieve 实现 Source 接口。
func (r *Pinned) Retrieve(
	ctx context.Context,
	_ *core.MatchContext,
) ([]*core.Candidate, error) {
	var ids []string

	if r.Store != nil {
		key := r.Key
		if key == "" {
			key = DefaultPinnedKey
		}
		data, err := r.Store.Get(ctx, key)
		if err == nil {
			var parsed []string
			if json.Unmarshal(data, &parsed) == nil {
				ids = parsed
			}
		}
	}

	// Fallback：使用内存 IDs
	if len(ids) == 0 {
		ids = r.IDs
	}

	out := make([]*core.Candidate, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out = append(out, core.NewCandidate(id))
	}
	return out, nil
}
