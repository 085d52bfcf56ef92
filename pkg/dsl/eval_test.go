package dsl

import (
	"testing"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/pkg/utils"
)

func testCandidate() *core.Candidate {
	c := core.NewCandidate("wig-1")
	c.Vendor = "luxe"
	c.Price = 129.99
	c.Score = 0.82
	c.SetAttr(core.AttrTexture, "wavy")
	c.SetAttr(core.AttrConstruction, "lace-front")
	c.PutLabel("retrieval_source", utils.Label{Value: "catalog", Source: "retrieval"})
	return c
}

func testContext() *core.MatchContext {
	return &core.MatchContext{
		Scene: "pdp",
		Target: &core.MatchTarget{
			ColorFamily: "blonde",
			Texture:     "wavy",
		},
	}
}

func TestRuleEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{name: "品牌等值", expr: `item.vendor == "luxe"`, want: true},
		{name: "价格比较", expr: `item.price < 200.0`, want: true},
		{name: "属性访问", expr: `item.attrs.construction == "lace-front"`, want: true},
		{name: "属性存在性检查", expr: `"shade" in item.attrs`, want: false},
		{name: "标签顶层访问", expr: `label.retrieval_source == "catalog"`, want: true},
		{name: "目标字段", expr: `target.color_family == "blonde"`, want: true},
		{name: "场景字段", expr: `mctx.scene == "pdp"`, want: true},
		{name: "逻辑组合", expr: `item.price < 150.0 && item.attrs.texture == "wavy"`, want: true},
		{name: "不满足的组合", expr: `item.score > 0.9 || item.vendor == "other"`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := CompileRule(tt.expr)
			if err != nil {
				t.Fatalf("CompileRule(%q) error = %v", tt.expr, err)
			}
			got, err := rule.Eval(testCandidate(), testContext())
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompileRuleErrors(t *testing.T) {
	if _, err := CompileRule(""); err == nil {
		t.Error("空表达式应编译失败")
	}
	if _, err := CompileRule("item.price <"); err == nil {
		t.Error("语法错误应编译失败")
	}
}

func TestRuleEvalNonBoolean(t *testing.T) {
	rule, err := CompileRule(`item.vendor`)
	if err != nil {
		t.Fatalf("CompileRule error = %v", err)
	}
	if _, err := rule.Eval(testCandidate(), testContext()); err == nil {
		t.Error("非布尔表达式应返回错误")
	}
}

func TestEvaluateEmptyExpr(t *testing.T) {
	got, err := Evaluate("", testCandidate(), testContext())
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if !got {
		t.Error("空表达式应恒为 true")
	}
}

func TestRuleEvalNilTarget(t *testing.T) {
	rule, err := CompileRule(`item.id == "wig-1"`)
	if err != nil {
		t.Fatalf("CompileRule error = %v", err)
	}
	got, err := rule.Eval(testCandidate(), &core.MatchContext{})
	if err != nil {
		t.Fatalf("无目标上下文求值失败: %v", err)
	}
	if !got {
		t.Error("与目标无关的表达式在无目标上下文下应可求值")
	}
}
