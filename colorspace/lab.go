// Package colorspace 提供发色匹配所需的感知色彩工具：
// CIE Lab 距离/相似度计算、标准色号表、色族归类。
//
// 设计原则：
//   - 纯函数、无状态：所有查表在包加载时完成，运行期只读
//   - 领域约定优先：距离公式针对发色色域做了缩放与截断，
//     不追求通用色差标准（如 CIEDE2000）
package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab 是 CIE Lab 色彩空间中的一个颜色点。
// 约定取值范围：L ∈ [0, 100]，A/B 约 ∈ [-128, 127]。
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

const (
	// distanceScale 发色色域集中在 Lab 空间的一小块区域，原始欧氏距离
	// 偏大，乘以 0.5 压缩到发色对比的有效区间。
	distanceScale = 0.5

	// maxDistance 距离上限，超出即视为完全不同的颜色。
	maxDistance = 100.0

	// similarityRange 相似度归一化区间：距离达到该值时相似度为 0。
	similarityRange = 20.0
)

// Distance 计算两个 Lab 颜色的感知距离。
// 在欧氏距离基础上乘以缩放系数，并截断到 [0, 100]。
func Distance(a, b Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	d := math.Sqrt(dl*dl+da*da+db*db) * distanceScale
	if d > maxDistance {
		return maxDistance
	}
	return d
}

// Similarity 将感知距离线性映射到 [0, 1] 的相似度分数。
// 距离为 0 时相似度为 1；距离达到 20 及以上时相似度为 0。
func Similarity(a, b Lab) float64 {
	s := 1 - Distance(a, b)/similarityRange
	if s < 0 {
		return 0
	}
	return s
}

// FromHex 将十六进制颜色（如 "#8b5a2b"）转换为约定范围下的 Lab。
// go-colorful 的 Lab 取值为 L ∈ [0,1]、a/b 约 ∈ [-1,1]，此处统一放大 100 倍。
func FromHex(hex string) (Lab, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Lab{}, err
	}
	l, a, b := c.Lab()
	return Lab{L: l * 100, A: a * 100, B: b * 100}, nil
}
