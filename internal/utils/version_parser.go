package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var partNumber = regexp.MustCompile(`^\d+`)

// CompareVersions 按点分段逐段比较数字部分，返回 -1、0 或 1
// 数字部分相同时按后缀字符串比较，例如 8.9p1 < 8.9p2
// 空版本排在最前
func CompareVersions(v1, v2 string) int {
	switch {
	case v1 == v2:
		return 0
	case v1 == "":
		return -1
	case v2 == "":
		return 1
	}

	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	for i := 0; i < max(len(parts1), len(parts2)); i++ {
		var p1, p2 string
		if i < len(parts1) {
			p1 = parts1[i]
		}
		if i < len(parts2) {
			p2 = parts2[i]
		}

		n1, s1 := splitPart(p1)
		n2, s2 := splitPart(p2)
		if n1 != n2 {
			if n1 < n2 {
				return -1
			}
			return 1
		}
		if c := strings.Compare(s1, s2); c != 0 {
			return c
		}
	}
	return 0
}

// splitPart 拆成数字前缀和剩余后缀
func splitPart(part string) (int, string) {
	digits := partNumber.FindString(part)
	if digits == "" {
		return 0, part
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, part
	}
	return n, part[len(digits):]
}
