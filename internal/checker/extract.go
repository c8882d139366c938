package checker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"Sanca/internal/model"
)

// Evidence 从匹配结果生成识别结果的参数
type Evidence struct {
	// 匹配区间左右额外保留的字节数
	KeepLeft  int
	KeepRight int

	Technology model.Technology
	// 支持 $techno_name$ $techno_version$ $evidence$ $url_of_finding$
	Template string
	URL      string
}

// ExtractFinding 根据匹配位置生成识别结果
//
// 证据取 wholematch 分组（没有该分组时取整个匹配）左右各扩展 KeepLeft/KeepRight 字节，
// 边界向内对齐到字符起点，不会截断多字节字符。版本号取 version 分组，
// 否则按顺序用 . 连接 version1 到 version4。
func ExtractFinding(re *regexp.Regexp, match []int, source string, opts Evidence) model.Finding {
	start, end := match[0], match[1]
	if idx := re.SubexpIndex("wholematch"); idx > 0 && match[2*idx] >= 0 {
		start, end = match[2*idx], match[2*idx+1]
	}

	left := max(0, start-opts.KeepLeft)
	for left < start && !utf8.RuneStart(source[left]) {
		left++
	}
	right := min(len(source), end+opts.KeepRight)
	for right > end && right < len(source) && !utf8.RuneStart(source[right]) {
		right--
	}
	evidence := source[left:right]

	version := extractVersion(re, match, source)
	versionText := ""
	if version != "" {
		versionText = " " + version
	}

	evidenceText := strings.NewReplacer(
		"$techno_name$", opts.Technology.String(),
		"$techno_version$", versionText,
		"$evidence$", evidence,
		"$url_of_finding$", opts.URL,
	).Replace(opts.Template)

	return model.Finding{
		Technology:      opts.Technology,
		Version:         version,
		Evidence:        evidence,
		EvidenceText:    evidenceText,
		URLOfFinding:    opts.URL,
		Vulnerabilities: []model.CVE{},
	}
}

// FindFinding 在 source 中查找第一个匹配，没有匹配时返回 nil
func FindFinding(re *regexp.Regexp, source string, opts Evidence) *model.Finding {
	match := re.FindStringSubmatchIndex(source)
	if match == nil {
		return nil
	}
	finding := ExtractFinding(re, match, source, opts)
	return &finding
}

func extractVersion(re *regexp.Regexp, match []int, source string) string {
	if v := group(re, match, source, "version"); v != "" {
		return v
	}

	var parts []string
	for _, name := range []string{"version1", "version2", "version3", "version4"} {
		if v := group(re, match, source, name); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ".")
}

func group(re *regexp.Regexp, match []int, source, name string) string {
	idx := re.SubexpIndex(name)
	if idx < 0 || 2*idx+1 >= len(match) || match[2*idx] < 0 {
		return ""
	}
	return source[match[2*idx]:match[2*idx+1]]
}
