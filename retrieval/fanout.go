package retrieval

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/utils"
)

// Fanout 是一个检索 Node：并发执行多个检索源，并合并结果。
// 支持超时、限流、优先级合并策略。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个检索源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string        // 合并策略：first / union / priority（优先级按 Sources 顺序）
}

func (n *Fanout) Name() string        { return "retrieval.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRetrieval }

func (n *Fanout) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu    sync.Mutex
		all   []*core.Candidate
		eg, _ = errgroup.WithContext(ctx)
	)

	// 限流：使用 semaphore 控制并发数
	sem := make(chan struct{}, n.MaxConcurrent)
	if n.MaxConcurrent <= 0 {
		close(sem) // 无限制时直接关闭，避免阻塞
	}

	for i, src := range n.Sources {
		s := src
		priority := i // 优先级（索引越小优先级越高）

		eg.Go(func() error {
			// 限流
			if n.MaxConcurrent > 0 {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			// 超时控制
			retrieveCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				retrieveCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			items, err := s.Retrieve(retrieveCtx, mctx)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他检索源
				return nil
			}

			// 记录检索来源 label，方便 explain / 观测
			for _, c := range items {
				if c == nil {
					continue
				}
				c.PutLabel("retrieval_source", utils.Label{Value: s.Name(), Source: "retrieval"})
				c.PutLabel("retrieval_priority", utils.Label{Value: strconv.Itoa(priority), Source: "retrieval"})
			}

			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 合并策略
	switch n.MergeStrategy {
	case "priority":
		return n.mergeByPriority(all), nil
	case "union":
		return n.mergeUnion(all), nil
	default: // "first" 或默认
		return n.mergeFirst(all), nil
	}
}

// mergeFirst 按 ID 去重，保留第一个出现的（默认策略）。
func (n *Fanout) mergeFirst(all []*core.Candidate) []*core.Candidate {
	if !n.Dedup {
		return all
	}
	seen := make(map[string]*core.Candidate, len(all))
	out := make([]*core.Candidate, 0, len(all))
	for _, c := range all {
		if c == nil {
			continue
		}
		if old, ok := seen[c.ID]; ok {
			for k, v := range c.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[c.ID] = c
		out = append(out, c)
	}
	return out
}

// mergeUnion 合并所有结果，不去重（用于需要保留所有来源的场景）。
func (n *Fanout) mergeUnion(all []*core.Candidate) []*core.Candidate {
	return all
}

// mergeByPriority 按优先级合并：相同 ID 时保留优先级更高的（索引更小）。
// 输出保持首次出现的顺序，结果可复现。
func (n *Fanout) mergeByPriority(all []*core.Candidate) []*core.Candidate {
	if !n.Dedup {
		return all
	}
	index := make(map[string]int, len(all))
	out := make([]*core.Candidate, 0, len(all))
	for _, c := range all {
		if c == nil {
			continue
		}
		pos, exists := index[c.ID]
		if !exists {
			index[c.ID] = len(out)
			out = append(out, c)
			continue
		}
		old := out[pos]
		if priorityOf(c) < priorityOf(old) {
			// 新候选优先级更高（值更小），替换后合并旧 labels
			for k, v := range old.Labels {
				if _, ok := c.Labels[k]; !ok {
					c.PutLabel(k, v)
				}
			}
			out[pos] = c
		} else {
			for k, v := range c.Labels {
				old.PutLabel(k, v)
			}
		}
	}
	return out
}

// priorityOf 解析候选的检索优先级。label 被 merge 过时取首段；解析不出按最低优先级。
func priorityOf(c *core.Candidate) int {
	lbl, ok := c.GetLabel("retrieval_priority")
	if !ok {
		return 999
	}
	value, _, _ := strings.Cut(lbl.Value, "|")
	p, err := strconv.Atoi(value)
	if err != nil {
		return 999
	}
	return p
}
