package rerank

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/conv"
	"github.com/rushteam/matchkit/pkg/utils"
)

// primaryShare 是主位配额占比：前 ceil(N*0.75) 个按分数直取。
const primaryShare = 0.75

// Curator 是多样性策展 Node：产出最终 Top-N，并保证结果不同质化。
//
// 算法：
//  1. 按总分稳定降序排序（打分节点已排序，这里防御性重排保证确定性），
//     同时去 nil、去重 ID
//  2. 前 ceil(N*0.75) 个为主位（最优匹配直取）；N>=2 时主位至多 N-1 个，
//     给替代风格留出至少一个坑位
//  3. 收集主位已覆盖的色族
//  4. 在剩余候选中找"替代风格"：色族已被主位覆盖、且风格与所有主位
//     都不同的候选，打 Alternative 标记（缺失风格不算差异风格）
//  5. 依次用替代风格候选、再用其余候选填满 N 个坑位
//
// 同色族不同风格的候选被刻意前置，避免满屏同一个剪裁的同色假发。
type Curator struct {
	// N 最终结果数量；N <= 0 时只做排序去重，不截断
	N int
}

func (n *Curator) Name() string {
	return "curate.diversity"
}

func (n *Curator) Kind() pipeline.Kind {
	return pipeline.KindCurate
}

func (n *Curator) Process(
	_ context.Context,
	_ *core.MatchContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	sorted := make([]*core.Candidate, 0, len(items))
	for _, c := range items {
		if c != nil && c.ID != "" {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	seen := make(map[string]bool, len(sorted))
	uniq := make([]*core.Candidate, 0, len(sorted))
	for _, c := range sorted {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		uniq = append(uniq, c)
	}

	if n.N <= 0 {
		return uniq, nil
	}
	if len(uniq) <= primaryCount(n.N) {
		return uniq, nil
	}

	primaries := uniq[:primaryCount(n.N)]
	remaining := uniq[primaryCount(n.N):]

	primaryFamilies := make(map[string]bool, len(primaries))
	primaryStyles := make(map[string]bool, len(primaries))
	for _, c := range primaries {
		if fam := c.Family(); fam != "" {
			primaryFamilies[fam] = true
		}
		primaryStyles[conv.NormalizeTerm(c.Attr(core.AttrStyle))] = true
	}

	var alternatives, leftovers []*core.Candidate
	for _, c := range remaining {
		style := conv.NormalizeTerm(c.Attr(core.AttrStyle))
		if style != "" && !primaryStyles[style] && primaryFamilies[c.Family()] {
			alternatives = append(alternatives, c)
			continue
		}
		leftovers = append(leftovers, c)
	}

	out := make([]*core.Candidate, 0, n.N)
	out = append(out, primaries...)
	for _, c := range alternatives {
		if len(out) >= n.N {
			break
		}
		// 只给真正入选的候选打标记
		c.Alternative = true
		c.PutLabel("diversity", utils.Label{
			Value:  "alternative_style",
			Source: n.Name(),
		})
		out = append(out, c)
	}
	for _, c := range leftovers {
		if len(out) >= n.N {
			break
		}
		out = append(out, c)
	}
	return out, nil
}

// primaryCount 计算主位配额：ceil(N*0.75)，N >= 2 时至多 N-1。
func primaryCount(n int) int {
	count := int(math.Ceil(float64(n) * primaryShare))
	if n >= 2 && count > n-1 {
		count = n - 1
	}
	if count < 1 {
		count = 1
	}
	return count
}
