package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rushteam/matchkit/core"
)

// HashBytes 计算内容哈希（sha256 十六进制），用作图像等二进制输入的缓存 key。
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString 计算字符串内容哈希。
func HashString(s string) string {
	return HashBytes([]byte(s))
}

// TargetKey 计算匹配目标的稳定缓存 key。
// 序列化走 JSON：结构体字段按声明顺序输出，相同目标必然得到相同 key。
func TargetKey(t *core.MatchTarget) string {
	if t == nil {
		return HashString("target:nil")
	}
	data, err := json.Marshal(t)
	if err != nil {
		// MatchTarget 只含基础类型，正常不可能序列化失败
		return HashString("target:unmarshalable")
	}
	return HashBytes(data)
}

// MatchKey 计算一次匹配请求的稳定缓存 key：目标 + 候选 ID 序列 + 截断数。
// 候选顺序参与 key 计算：顺序不同视为不同请求（打分对顺序稳定，
// 但去重策展保留首个出现者，顺序可能影响结果）。
func MatchKey(t *core.MatchTarget, candidateIDs []string, limit int) string {
	var b strings.Builder
	b.WriteString(TargetKey(t))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(limit))
	b.WriteByte('\n')
	for _, id := range candidateIDs {
		b.WriteString(id)
		b.WriteByte('\x00')
	}
	return HashString(b.String())
}
