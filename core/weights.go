package core

import (
	"fmt"
	"math"
)

// ScoringWeights 是匹配打分各分量的权重。
// 各分量非负且总和为 1，保证总分落在 [0, 1]。
type ScoringWeights struct {
	Color        float64 `json:"color" yaml:"color"`
	Texture      float64 `json:"texture" yaml:"texture"`
	Availability float64 `json:"availability" yaml:"availability"`
	Popularity   float64 `json:"popularity" yaml:"popularity"`
	Construction float64 `json:"construction" yaml:"construction"`
}

// DefaultWeights 返回默认权重：色彩主导，纹理次之。
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Color:        0.55,
		Texture:      0.20,
		Availability: 0.10,
		Popularity:   0.10,
		Construction: 0.05,
	}
}

// weightSumTolerance 浮点权重求和的容差。
const weightSumTolerance = 1e-6

// Sum 返回权重总和。
func (w ScoringWeights) Sum() float64 {
	return w.Color + w.Texture + w.Availability + w.Popularity + w.Construction
}

// Validate 校验权重合法性：各分量非负，总和与 1 的偏差不超过容差。
func (w ScoringWeights) Validate() error {
	components := map[string]float64{
		"color":        w.Color,
		"texture":      w.Texture,
		"availability": w.Availability,
		"popularity":   w.Popularity,
		"construction": w.Construction,
	}
	for name, v := range components {
		if v < 0 {
			return NewDomainError(ModuleMatch, ErrorCodeInvalidInput,
				fmt.Sprintf("weights: %s must be non-negative, got %v", name, v))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightSumTolerance {
		return NewDomainError(ModuleMatch, ErrorCodeInvalidInput,
			fmt.Sprintf("weights: components must sum to 1, got %v", sum))
	}
	return nil
}
