package retrieval

import (
	"context"
	"encoding/json"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
)

const (
	// DefaultBestsellerKey 是畅销榜有序集合的默认 key。
	DefaultBestsellerKey = "bestseller:products"

	// DefaultBestsellerTopN 是默认取榜单前多少名。
	DefaultBestsellerTopN = 100
)

// Bestseller 是畅销榜检索源，从 Store 读取销量榜单。
//   - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（有序集合，按销量降序），
//     并把成员销量归一化为 [0, 1] 热度先验写入 Popularity
//   - 否则从普通 key 读取 JSON 商品 ID 数组，仅有榜单顺序、没有热度先验
//
// Bestseller 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Bestseller struct {
	Store core.Store
	Key   string // 榜单 key，空值使用 DefaultBestsellerKey
	TopN  int    // 取榜单前 N 名，<=0 时使用 DefaultBestsellerTopN
}

func (r *Bestseller) Name() string        { return "retrieval.bestseller" }
func (r *Bestseller) Kind() pipeline.Kind { return pipeline.KindRetrieval }

// Process 实现 Node 接口，直接调用 Retrieve。
func (r *Bestseller) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Retrieve(ctx, mctx)
}

// Retrieve 实现 Source 接口。
func (r *Bestseller) Retrieve(
	ctx context.Context,
	_ *core.MatchContext,
) ([]*core.Candidate, error) {
	if r.Store == nil {
		return nil, nil
	}
	key := r.Key
	if key == "" {
		key = DefaultBestsellerKey
	}
	topN := r.TopN
	if topN <= 0 {
		topN = DefaultBestsellerTopN
	}

	if kvStore, ok := r.Store.(core.KeyValueStore); ok {
		return r.retrieveSortedSet(ctx, kvStore, key, topN)
	}
	return r.retrievePlainList(ctx, key, topN)
}

// retrieveSortedSet 从有序集合读取榜单，并以榜首销量为基准归一化热度先验。
func (r *Bestseller) retrieveSortedSet(
	ctx context.Context,
	kvStore core.KeyValueStore,
	key string,
	topN int,
) ([]*core.Candidate, error) {
	members, err := kvStore.ZRange(ctx, key, 0, int64(topN)-1)
	if err != nil || len(members) == 0 {
		// 榜单缺失或读取失败：此源不产出候选，不中断其他检索源
		return nil, nil
	}

	// ZRange 按分数降序返回，榜首即最大销量
	maxScore, err := kvStore.ZScore(ctx, key, members[0])
	if err != nil {
		maxScore = 0
	}

	out := make([]*core.Candidate, 0, len(members))
	for _, member := range members {
		if member == "" {
			continue
		}
		c := core.NewCandidate(member)
		if maxScore > 0 {
			if score, err := kvStore.ZScore(ctx, key, member); err == nil {
				pop := score / maxScore
				c.Popularity = &pop
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// retrievePlainList 从普通 key 读取 JSON 商品 ID 数组。
func (r *Bestseller) retrievePlainList(
	ctx context.Context,
	key string,
	topN int,
) ([]*core.Candidate, error) {
	data, err := r.Store.Get(ctx, key)
	if err != nil {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, nil
	}
	if len(ids) > topN {
		ids = ids[:topN]
	}

	out := make([]*core.Candidate, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		out = append(out, core.NewCandidate(id))
	}
	return out, nil
}
