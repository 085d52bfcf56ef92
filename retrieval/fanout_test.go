package retrieval

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/utils"
)

// stubSource 是可控的检索源测试替身。
type stubSource struct {
	name  string
	items []*core.Candidate
	err   error
	delay time.Duration

	// 并发峰值观测（可选）
	active *int32
	peak   *int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Retrieve(ctx context.Context, _ *core.MatchContext) ([]*core.Candidate, error) {
	if s.active != nil {
		cur := atomic.AddInt32(s.active, 1)
		for {
			p := atomic.LoadInt32(s.peak)
			if cur <= p || atomic.CompareAndSwapInt32(s.peak, p, cur) {
				break
			}
		}
		defer atomic.AddInt32(s.active, -1)
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func scored(id string, score float64) *core.Candidate {
	c := core.NewCandidate(id)
	c.Score = score
	return c
}

func TestFanoutLabelsAndUnion(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "src.a", items: []*core.Candidate{scored("a1", 1), scored("a2", 2)}},
			&stubSource{name: "src.b", items: []*core.Candidate{scored("b1", 3)}},
		},
		MergeStrategy: "union",
	}

	got, err := n.Process(context.Background(), &core.MatchContext{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(candidates) = %d, want 3", len(got))
	}

	// 并发完成顺序不确定，按 ID 校验来源标记
	wantSource := map[string]string{"a1": "src.a", "a2": "src.a", "b1": "src.b"}
	wantPriority := map[string]string{"a1": "0", "a2": "0", "b1": "1"}
	for _, c := range got {
		if lbl, ok := c.GetLabel("retrieval_source"); !ok || lbl.Value != wantSource[c.ID] {
			t.Errorf("%s retrieval_source = %v, want %q", c.ID, lbl.Value, wantSource[c.ID])
		}
		if lbl, ok := c.GetLabel("retrieval_priority"); !ok || lbl.Value != wantPriority[c.ID] {
			t.Errorf("%s retrieval_priority = %v, want %q", c.ID, lbl.Value, wantPriority[c.ID])
		}
	}
}

func TestFanoutMergeFirstWithinSource(t *testing.T) {
	// 单一源内部的重复按出现顺序去重，保留先出现的
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "src.a", items: []*core.Candidate{scored("x", 5), scored("x", 1), scored("y", 2)}},
		},
		Dedup: true,
	}

	got, err := n.Process(context.Background(), &core.MatchContext{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(got))
	}
	if got[0].ID != "x" || got[0].Score != 5 {
		t.Errorf("got[0] = %s(%.0f), want 首个出现的 x(5)", got[0].ID, got[0].Score)
	}
	if got[1].ID != "y" {
		t.Errorf("got[1].ID = %s, want y", got[1].ID)
	}
}

func TestFanoutMergeByPriority(t *testing.T) {
	// 两个源都产出 x：无论完成顺序如何，保留优先级更高（索引更小）的那份
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "src.a", items: []*core.Candidate{scored("x", 5)}},
			&stubSource{name: "src.b", items: []*core.Candidate{scored("x", 1), scored("b2", 2)}},
		},
		Dedup:         true,
		MergeStrategy: "priority",
	}

	got, err := n.Process(context.Background(), &core.MatchContext{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(got))
	}
	if got[0].ID != "x" || got[0].Score != 5 {
		t.Errorf("got[0] = %s(%.0f), want 高优先级源的 x(5)", got[0].ID, got[0].Score)
	}
	if got[1].ID != "b2" {
		t.Errorf("got[1].ID = %s, want b2", got[1].ID)
	}
	// 被合并一方的 labels 累积到保留者上
	if lbl, ok := got[0].GetLabel("retrieval_source"); !ok || !strings.Contains(lbl.Value, "src.a") {
		t.Errorf("x retrieval_source = %v, want 包含 src.a", lbl.Value)
	}
}

func TestFanoutSkipsFailedAndSlowSources(t *testing.T) {
	n := &Fanout{
		Sources: []Source{
			&stubSource{name: "src.ok", items: []*core.Candidate{scored("a1", 1)}},
			&stubSource{name: "src.err", err: errors.New("backend down")},
			&stubSource{name: "src.slow", delay: 500 * time.Millisecond, items: []*core.Candidate{scored("slow1", 1)}},
		},
		Timeout: 30 * time.Millisecond,
	}

	got, err := n.Process(context.Background(), &core.MatchContext{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("candidates = %v, want 仅正常源的 [a1]", candidateIDs(got))
	}
}

func TestFanoutMaxConcurrent(t *testing.T) {
	var active, peak int32
	sources := make([]Source, 0, 4)
	for i := 0; i < 4; i++ {
		sources = append(sources, &stubSource{
			name:   "src.slow",
			delay:  20 * time.Millisecond,
			items:  []*core.Candidate{scored("x", 1)},
			active: &active,
			peak:   &peak,
		})
	}
	n := &Fanout{Sources: sources, MaxConcurrent: 2}

	if _, err := n.Process(context.Background(), &core.MatchContext{}, nil); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Errorf("并发峰值 = %d, want <= 2", got)
	}
}

func TestFanoutEmptySources(t *testing.T) {
	n := &Fanout{}
	got, err := n.Process(context.Background(), &core.MatchContext{}, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("Process() = %v, %v, want empty, nil", got, err)
	}
}

func TestPriorityOf(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  int
	}{
		{"单一优先级", "0", 0},
		{"两位数优先级", "12", 12},
		{"merge 过的取首段", "1|3", 1},
		{"解析不出按最低", "high", 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewCandidate("x")
			c.PutLabel("retrieval_priority", utils.Label{Value: tt.label, Source: "retrieval"})
			if got := priorityOf(c); got != tt.want {
				t.Errorf("priorityOf(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}

	t.Run("缺失 label 按最低", func(t *testing.T) {
		if got := priorityOf(core.NewCandidate("x")); got != 999 {
			t.Errorf("priorityOf() = %d, want 999", got)
		}
	})
}
