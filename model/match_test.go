package model

import (
	"math"
	"testing"

	"github.com/rushteam/matchkit/colorspace"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/conv"
)

func boolPtr(b bool) *bool { return &b }

func f64Ptr(f float64) *float64 { return &f }

func mustScorer(t *testing.T) *MatchScorer {
	t.Helper()
	s, err := NewMatchScorer(core.DefaultWeights())
	if err != nil {
		t.Fatalf("NewMatchScorer() error = %v", err)
	}
	return s
}

func TestNewMatchScorerRejectsBadWeights(t *testing.T) {
	_, err := NewMatchScorer(core.ScoringWeights{Color: 0.9, Texture: 0.9})
	if err == nil {
		t.Fatal("NewMatchScorer() error = nil, want weight validation error")
	}
}

func TestMatchScorerPerfectCandidate(t *testing.T) {
	// 颜色相似度 1.0 + 纹理精确 + 有库存 + 热度 1.0 + 全蕾丝 → 总分 1.0
	lab, ok := colorspace.LookupShade("ash blonde")
	if !ok {
		t.Fatal("LookupShade(ash blonde) miss")
	}
	target := &core.MatchTarget{
		Color:       &lab,
		ColorFamily: "blonde",
		Texture:     "wavy",
	}

	c := core.NewCandidate("p1")
	c.SetAttr(core.AttrShade, "ash blonde")
	c.SetAttr(core.AttrTexture, "wavy")
	c.SetAttr(core.AttrConstruction, "full-lace")
	c.Available = boolPtr(true)
	c.Popularity = f64Ptr(1.0)

	b, err := mustScorer(t).Score(target, c)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	for name, got := range map[string]float64{
		"Color":        b.Color,
		"Texture":      b.Texture,
		"Availability": b.Availability,
		"Popularity":   b.Popularity,
		"Construction": b.Construction,
	} {
		if got != 1.0 {
			t.Errorf("%s = %v, want 1.0", name, got)
		}
	}
	if math.Abs(b.Total-1.0) > 1e-9 {
		t.Errorf("Total = %v, want 1.0", b.Total)
	}
}

func TestColorScoreFamilyFallback(t *testing.T) {
	// 双方都没有感知色值时退化为色族比对：跨族得 0.3 下限
	target := &core.MatchTarget{ColorFamily: "blonde"}

	cross := core.NewCandidate("p1")
	cross.SetAttr(core.AttrColorFamily, "brunette")
	if got := colorScore(target, cross); got != familyFloorScore {
		t.Errorf("cross-family colorScore = %v, want %v", got, familyFloorScore)
	}

	same := core.NewCandidate("p2")
	same.SetAttr(core.AttrColorFamily, "blonde")
	if got := colorScore(target, same); got != 1.0 {
		t.Errorf("same-family colorScore = %v, want 1.0", got)
	}
}

func TestColorScorePerceptualPath(t *testing.T) {
	platinum, _ := colorspace.LookupShade("platinum blonde")
	target := &core.MatchTarget{Color: &platinum, ColorFamily: "blonde"}

	near := core.NewCandidate("p1")
	near.SetAttr(core.AttrShade, "platinum blonde")
	far := core.NewCandidate("p2")
	far.SetAttr(core.AttrShade, "jet black")

	nearScore := colorScore(target, near)
	farScore := colorScore(target, far)

	if nearScore != 1.0 {
		t.Errorf("identical shade colorScore = %v, want 1.0", nearScore)
	}
	if farScore >= nearScore {
		t.Errorf("farScore = %v, want < nearScore %v", farScore, nearScore)
	}

	// 候选无法解析感知色值时，即使目标带 Lab 也走色族兜底
	unresolved := core.NewCandidate("p3")
	unresolved.SetAttr(core.AttrColorFamily, "mystery color")
	if got := colorScore(target, unresolved); got != familyFloorScore {
		t.Errorf("unresolved colorScore = %v, want %v", got, familyFloorScore)
	}
}

func TestColorScoreNoTargetSignal(t *testing.T) {
	c := core.NewCandidate("p1")
	c.SetAttr(core.AttrColorFamily, "red")
	if got := colorScore(&core.MatchTarget{}, c); got != 1.0 {
		t.Errorf("colorScore without target signal = %v, want 1.0", got)
	}
	if got := colorScore(nil, c); got != 1.0 {
		t.Errorf("colorScore(nil target) = %v, want 1.0", got)
	}
}

func TestTextureScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		candidate string
		want      float64
	}{
		{name: "精确匹配", target: "straight", candidate: "straight", want: 1.0},
		{name: "兼容表命中", target: "straight", candidate: "sleek", want: texturePartialScore},
		{name: "兼容表反向命中", target: "sleek", candidate: "straight", want: texturePartialScore},
		{name: "不兼容", target: "straight", candidate: "curly", want: textureFloorScore},
		{name: "候选纹理缺失", target: "wavy", candidate: "", want: textureFloorScore},
		{name: "目标无偏好", target: "", candidate: "curly", want: 1.0},
		{name: "大小写连字符归一", target: "Body-Wave", candidate: "wavy", want: texturePartialScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewCandidate("p1")
			if tt.candidate != "" {
				c.SetAttr(core.AttrTexture, tt.candidate)
			}
			got := textureScore(&core.MatchTarget{Texture: tt.target}, c)
			if got != tt.want {
				t.Errorf("textureScore(%q, %q) = %v, want %v", tt.target, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestAvailabilityScore(t *testing.T) {
	c := core.NewCandidate("p1")
	if got := availabilityScore(c); got != 0.0 {
		t.Errorf("nil availability score = %v, want 0.0", got)
	}
	c.Available = boolPtr(false)
	if got := availabilityScore(c); got != 0.0 {
		t.Errorf("unavailable score = %v, want 0.0", got)
	}
	c.Available = boolPtr(true)
	if got := availabilityScore(c); got != 1.0 {
		t.Errorf("available score = %v, want 1.0", got)
	}
}

func TestPopularityScore(t *testing.T) {
	tests := []struct {
		name       string
		popularity *float64
		price      float64
		want       float64
	}{
		{name: "先验直接采用", popularity: f64Ptr(0.5), want: 0.5},
		{name: "先验越界截断到 1", popularity: f64Ptr(1.5), want: 1.0},
		{name: "负先验截断到 0", popularity: f64Ptr(-0.2), want: 0.0},
		{name: "低价代理打满", price: 100, want: 1.0},
		{name: "中价代理", price: 400, want: 0.5},
		{name: "高价代理到下限", price: 2000, want: popularityProxyFloor},
		{name: "零价格记满分", price: 0, want: 1.0},
		{name: "负价格记满分", price: -10, want: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewCandidate("p1")
			c.Popularity = tt.popularity
			c.Price = tt.price
			if got := popularityScore(c); got != tt.want {
				t.Errorf("popularityScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstructionScore(t *testing.T) {
	tests := []struct {
		tier string
		want float64
	}{
		{tier: "full-lace", want: 1.0},
		{tier: "Lace Front", want: 0.9},
		{tier: "monofilament", want: 0.8},
		{tier: "hand_tied", want: 0.7},
		{tier: "basic", want: 0.3},
		{tier: "something else", want: constructionUnknownScore},
		{tier: "", want: constructionUnknownScore},
	}
	for _, tt := range tests {
		if got := constructionScore(conv.NormalizeTerm(tt.tier)); got != tt.want {
			t.Errorf("constructionScore(%q) = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	platinum, _ := colorspace.LookupShade("platinum blonde")
	target := &core.MatchTarget{
		Color:       &platinum,
		ColorFamily: "blonde",
		Texture:     "straight",
	}
	scorer := mustScorer(t)

	candidates := []*core.Candidate{
		core.NewCandidate("bare"),
		func() *core.Candidate {
			c := core.NewCandidate("hostile")
			c.Price = -999
			c.Popularity = f64Ptr(42)
			c.SetAttr(core.AttrShade, "???")
			c.SetAttr(core.AttrTexture, "unknown texture")
			c.SetAttr(core.AttrConstruction, "alien tech")
			return c
		}(),
		func() *core.Candidate {
			c := core.NewCandidate("rich")
			c.SetAttr(core.AttrShade, "jet black")
			c.SetAttr(core.AttrTexture, "kinky")
			c.SetAttr(core.AttrConstruction, "basic")
			c.Available = boolPtr(true)
			c.Price = 59.99
			return c
		}(),
	}

	for _, c := range candidates {
		b, err := scorer.Score(target, c)
		if err != nil {
			t.Fatalf("Score(%s) error = %v", c.ID, err)
		}
		for name, v := range map[string]float64{
			"Color":        b.Color,
			"Texture":      b.Texture,
			"Availability": b.Availability,
			"Popularity":   b.Popularity,
			"Construction": b.Construction,
			"Total":        b.Total,
		} {
			if v < 0 || v > 1 {
				t.Errorf("candidate %s: %s = %v, out of [0,1]", c.ID, name, v)
			}
		}
	}
}

func TestScoreColorMonotonicity(t *testing.T) {
	// 仅颜色相似度不同的两个候选：相似度更高者总分不能更低
	platinum, _ := colorspace.LookupShade("platinum blonde")
	target := &core.MatchTarget{Color: &platinum, ColorFamily: "blonde", Texture: "straight"}
	scorer := mustScorer(t)

	base := func(id, shade string) *core.Candidate {
		c := core.NewCandidate(id)
		c.SetAttr(core.AttrShade, shade)
		c.SetAttr(core.AttrTexture, "straight")
		c.SetAttr(core.AttrConstruction, "lace-front")
		c.Available = boolPtr(true)
		c.Price = 150
		return c
	}

	closer, err := scorer.Score(target, base("closer", "ash blonde"))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	farther, err := scorer.Score(target, base("farther", "espresso"))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if closer.Color <= farther.Color {
		t.Fatalf("closer.Color = %v, farther.Color = %v, want closer > farther", closer.Color, farther.Color)
	}
	if closer.Total < farther.Total {
		t.Errorf("closer.Total = %v < farther.Total = %v", closer.Total, farther.Total)
	}
}

func TestScoreNilCandidate(t *testing.T) {
	if _, err := mustScorer(t).Score(&core.MatchTarget{}, nil); err == nil {
		t.Fatal("Score(nil) error = nil, want invalid input error")
	}
}
