package retrieval

import (
	"context"
	"strconv"

	"github.com/rushteam/matchkit/colorspace"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
)

const (
	// DefaultColorCollection 是商品色值向量集合的默认名称。
	DefaultColorCollection = "product_colors"

	// DefaultColorTopK 是色彩近邻检索默认返回的候选数。
	DefaultColorTopK = 50
)

// ColorANN 是色彩近邻检索源：以目标发色的 Lab 色值为查询向量，
// 在向量服务中检索颜色最接近的商品（"找和我发色一样的"场景）。
//
// 查询向量的解析顺序：
//  1. Target.Color（分析服务产出的感知色值）
//  2. Target.Shade 对应的标准色卡
//  3. Target.ColorFamily 对应的标准色卡
//
// 三者都解析不出时此源不产出候选（目标没有颜色信号，色彩检索没有意义）。
//
// ColorANN 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type ColorANN struct {
	Service    core.VectorService
	Collection string // 向量集合名，空值使用 DefaultColorCollection
	TopK       int    // <=0 时使用 DefaultColorTopK
}

func (r *ColorANN) Name() string        { return "retrieval.color_ann" }
func (r *ColorANN) Kind() pipeline.Kind { return pipeline.KindRetrieval }

// Process 实现 Node 接口，直接调用 Retrieve。
func (r *ColorANN) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Retrieve(ctx, mctx)
}

// Retrieve 实现 Source 接口。
func (r *ColorANN) Retrieve(
	ctx context.Context,
	mctx *core.MatchContext,
) ([]*core.Candidate, error) {
	if r.Service == nil {
		return nil, nil
	}

	var target *core.MatchTarget
	if mctx != nil {
		target = mctx.Target
	}
	lab, ok := targetLab(target)
	if !ok {
		return nil, nil
	}

	collection := r.Collection
	if collection == "" {
		collection = DefaultColorCollection
	}
	topK := r.TopK
	if topK <= 0 {
		topK = DefaultColorTopK
	}

	result, err := r.Service.Search(ctx, &core.VectorSearchRequest{
		Collection: collection,
		Vector:     []float64{lab.L, lab.A, lab.B},
		TopK:       topK,
		Metric:     "euclidean",
	})
	if err != nil {
		// 向量服务故障时此源不产出候选，不中断其他检索源
		return nil, nil
	}

	out := make([]*core.Candidate, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID == "" {
			continue
		}
		c := core.NewCandidate(item.ID)
		c.Score = item.Score
		c.PutLabel("color_distance", utils.Label{
			Value:  strconv.FormatFloat(item.Distance, 'f', 2, 64),
			Source: "retrieval",
		})
		out = append(out, c)
	}
	return out, nil
}

// targetLab 把匹配目标解析为 Lab 查询向量。
func targetLab(t *core.MatchTarget) (colorspace.Lab, bool) {
	if t == nil {
		return colorspace.Lab{}, false
	}
	if t.Color != nil {
		return *t.Color, true
	}
	if lab, ok := colorspace.LookupShade(t.Shade); ok {
		return lab, true
	}
	return colorspace.LookupShade(t.ColorFamily)
}
