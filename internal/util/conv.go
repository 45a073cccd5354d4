package util

import (
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseScore 解析分数字符串，非数字返回错误
func ParseScore(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
