package rank

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/matchkit/core"
)

// stubScorer 按预置表返回分数。
type stubScorer struct {
	scores map[string]float64
	err    error
}

func (s *stubScorer) Name() string { return "stub" }

func (s *stubScorer) Score(t *core.MatchTarget, c *core.Candidate) (*core.ScoreBreakdown, error) {
	if s.err != nil {
		return nil, s.err
	}
	total := s.scores[c.ID]
	return &core.ScoreBreakdown{Color: total, Total: total}, nil
}

func TestMatchNodeScoresAndSorts(t *testing.T) {
	node := &MatchNode{Scorer: &stubScorer{scores: map[string]float64{
		"low": 0.2, "high": 0.9, "mid": 0.5,
	}}}

	items := []*core.Candidate{
		core.NewCandidate("low"),
		core.NewCandidate("high"),
		nil,
		core.NewCandidate(""),
		core.NewCandidate("mid"),
	}

	out, err := node.Process(context.Background(), &core.MatchContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// nil 与缺失 ID 的候选被跳过，其余按总分降序
	wantOrder := []string{"high", "mid", "low"}
	if len(out) != len(wantOrder) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(wantOrder))
	}
	for i, want := range wantOrder {
		if out[i].ID != want {
			t.Errorf("out[%d].ID = %q, want %q", i, out[i].ID, want)
		}
	}

	// 分数、分项与标签都已写回
	if out[0].Score != 0.9 {
		t.Errorf("out[0].Score = %v, want 0.9", out[0].Score)
	}
	if out[0].Breakdown == nil || out[0].Breakdown.Total != 0.9 {
		t.Errorf("out[0].Breakdown = %+v, want Total 0.9", out[0].Breakdown)
	}
	if lbl, ok := out[0].GetLabel("rank_model"); !ok || lbl.Value != "stub" {
		t.Errorf("rank_model label = %+v, want value stub", lbl)
	}
}

func TestMatchNodeStableOrderOnTies(t *testing.T) {
	node := &MatchNode{Scorer: &stubScorer{scores: map[string]float64{
		"a": 0.5, "b": 0.5, "c": 0.5,
	}}}

	out, err := node.Process(context.Background(), nil, []*core.Candidate{
		core.NewCandidate("a"),
		core.NewCandidate("b"),
		core.NewCandidate("c"),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if out[i].ID != want {
			t.Errorf("out[%d].ID = %q, want %q (ties must keep input order)", i, out[i].ID, want)
		}
	}
}

func TestMatchNodePropagatesScorerError(t *testing.T) {
	wantErr := errors.New("model down")
	node := &MatchNode{Scorer: &stubScorer{err: wantErr}}

	_, err := node.Process(context.Background(), nil, []*core.Candidate{core.NewCandidate("a")})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Process() error = %v, want %v", err, wantErr)
	}
}

func TestMatchNodeNoScorerPassthrough(t *testing.T) {
	items := []*core.Candidate{core.NewCandidate("a")}
	out, err := (&MatchNode{}).Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("Process() = %v, want passthrough", out)
	}
}
