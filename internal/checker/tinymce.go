package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// TinyMCEChecker 通过 majorVersion/minorVersion 定义识别 TinyMCE
type TinyMCEChecker struct {
	regexes []*regexp.Regexp
}

// NewTinyMCEChecker 创建 TinyMCE 检查器
func NewTinyMCEChecker() *TinyMCEChecker {
	return &TinyMCEChecker{
		regexes: []*regexp.Regexp{
			regexp.MustCompile(`(?P<wholematch>[^a-z]majorVersion\s*:\s*['"](?P<version1>\d+)['"]\s*,\s*minorVersion\s*:\s*['"](?P<version2>\d+\.\d+)['"])`),
			// 压缩后的代码里顺序可能相反
			regexp.MustCompile(`(?P<wholematch>[^a-z]minorVersion\s*:\s*['"](?P<version2>\d+\.\d+)['"]\s*,\s*majorVersion\s*:\s*['"](?P<version1>\d+)['"])`),
		},
	}
}

func (c *TinyMCEChecker) Technology() model.Technology {
	return model.TinyMCE
}

// Check 每个响应最多一个结果
func (c *TinyMCEChecker) Check(responses []model.ProbeResponse) []model.Finding {
	var findings []model.Finding
	for _, resp := range responses {
		for _, re := range c.regexes {
			finding := FindFinding(re, resp.Body, Evidence{
				KeepLeft:   30,
				KeepRight:  30,
				Technology: model.TinyMCE,
				Template:   templateFound,
				URL:        resp.URL,
			})
			if finding != nil {
				findings = append(findings, *finding)
				break
			}
		}
	}
	return findings
}
