package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// JQueryChecker 通过源码头部的版权注释识别 jQuery
type JQueryChecker struct {
	comment *regexp.Regexp
}

// NewJQueryChecker 创建 jQuery 检查器
func NewJQueryChecker() *JQueryChecker {
	return &JQueryChecker{
		// 例如: /*! jQuery v3.6.0 | (c) OpenJS Foundation
		comment: regexp.MustCompile(`\/\*![\s\*]+(?P<wholematch>jQuery (JavaScript Library )?(v(?P<version>\d\.\d\.\d)))( |)?`),
	}
}

func (c *JQueryChecker) Technology() model.Technology {
	return model.JQuery
}

// Check 页面和引用的脚本都会检查，返回第一个结果
func (c *JQueryChecker) Check(responses []model.ProbeResponse) []model.Finding {
	for _, resp := range responses {
		finding := FindFinding(c.comment, resp.Body, Evidence{
			KeepLeft:   30,
			KeepRight:  30,
			Technology: model.JQuery,
			Template:   templateFound,
			URL:        resp.URL,
		})
		if finding != nil {
			return []model.Finding{*finding}
		}
	}
	return nil
}
