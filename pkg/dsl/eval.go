// Package dsl 提供基于 CEL (Common Expression Language) 的业务规则解释器。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/matchkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("target", cel.DynType),
		cel.Variable("mctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Rule 是编译后的业务规则，可对多个候选反复求值。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：item.vendor == "luxe" / item.price < 200.0
//   - 属性：item.attrs.construction == "lace-front"
//   - 标签：label.retrieval_source == "catalog"
//   - 目标：target.color_family == "blonde"
//   - 逻辑：item.price < 150.0 && item.attrs.texture == "wavy"
//
// 示例：
//   - `item.vendor != "discontinued-brand"` → 排除指定品牌
//   - `label.retrieval_source == "bestseller" || item.score > 0.7` → 榜单来源或高分
//
// 注意：CEL 访问不存在的 key 会报错，用 `key in item.attrs` 先做存在性检查。
type Rule struct {
	expr string
	prg  cel.Program
}

// CompileRule 编译规则表达式。表达式编译一次，之后可并发求值。
func CompileRule(expr string) (*Rule, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: init env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// Expr 返回规则的原始表达式。
func (r *Rule) Expr() string { return r.expr }

// Eval 对单个候选求值，返回布尔结果。
func (r *Rule) Eval(c *core.Candidate, mctx *core.MatchContext) (bool, error) {
	out, _, err := r.prg.Eval(buildInput(c, mctx))
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", r.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q must return boolean, got %T", r.expr, out.Value())
	}
	return result, nil
}

// Evaluate 一次性编译并求值，适合临时表达式；批量求值请用 CompileRule。
// 空表达式恒为 true。
func Evaluate(expr string, c *core.Candidate, mctx *core.MatchContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	rule, err := CompileRule(expr)
	if err != nil {
		return false, err
	}
	return rule.Eval(c, mctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(c *core.Candidate, mctx *core.MatchContext) map[string]interface{} {
	labels := make(map[string]interface{})
	attrs := make(map[string]interface{})
	item := map[string]interface{}{
		"id":     "",
		"score":  0.0,
		"labels": labels,
		"attrs":  attrs,
	}
	if c != nil {
		for k, v := range c.Labels {
			labels[k] = map[string]interface{}{
				"value":  v.Value,
				"source": v.Source,
			}
		}
		for k, v := range c.Attrs {
			attrs[k] = v
		}
		item["id"] = c.ID
		item["handle"] = c.Handle
		item["title"] = c.Title
		item["vendor"] = c.Vendor
		item["price"] = c.Price
		item["score"] = c.Score
		item["alternative"] = c.Alternative
		if c.Available != nil {
			item["available"] = *c.Available
		} else {
			item["available"] = nil
		}
		if c.Popularity != nil {
			item["popularity"] = *c.Popularity
		} else {
			item["popularity"] = nil
		}
	}

	target := map[string]interface{}{}
	mc := map[string]interface{}{}
	if mctx != nil {
		mc["request_id"] = mctx.RequestID
		mc["user_id"] = mctx.UserID
		mc["scene"] = mctx.Scene
		mc["params"] = mctx.Params
		if t := mctx.Target; t != nil {
			target["color_family"] = t.ColorFamily
			target["families"] = t.AcceptedFamilies()
			target["shade"] = t.Shade
			target["undertone"] = t.Undertone
			target["texture"] = t.Texture
			target["style"] = t.Style
			target["lengths"] = t.Lengths
			target["available_only"] = t.AvailableOnly
			if t.PriceMin != nil {
				target["price_min"] = *t.PriceMin
			}
			if t.PriceMax != nil {
				target["price_max"] = *t.PriceMax
			}
		}
	}

	// label 顶层访问器：label.retrieval_source 直接取 value
	labelAccessor := make(map[string]interface{})
	for k, v := range labels {
		labelAccessor[k] = v.(map[string]interface{})["value"]
	}

	return map[string]interface{}{
		"item":   item,
		"label":  labelAccessor,
		"target": target,
		"mctx":   mc,
	}
}
