package checker

import (
	"fmt"
	"regexp"

	"Sanca/internal/model"
)

// signatureChecker 通过响应头和错误页签名识别服务端技术
// 只检查主请求的响应，引用的脚本可能来自其他服务器
type signatureChecker struct {
	technology model.Technology

	header     *regexp.Regexp
	headerKeep int

	body          *regexp.Regexp
	bodyKeepLeft  int
	bodyKeepRight int
	bodyTemplate  string
}

func (c *signatureChecker) Technology() model.Technology {
	return c.technology
}

// Check 先查响应头再查页面内容，找到第一个结果即返回
func (c *signatureChecker) Check(responses []model.ProbeResponse) []model.Finding {
	for _, resp := range responses {
		if resp.Kind != model.KindMain {
			continue
		}

		if finding := c.checkHeaders(resp); finding != nil {
			return []model.Finding{*finding}
		}

		finding := FindFinding(c.body, resp.Body, Evidence{
			KeepLeft:   c.bodyKeepLeft,
			KeepRight:  c.bodyKeepRight,
			Technology: c.technology,
			Template:   c.bodyTemplate,
			URL:        resp.URL,
		})
		if finding != nil {
			return []model.Finding{*finding}
		}
	}
	return nil
}

func (c *signatureChecker) checkHeaders(resp model.ProbeResponse) *model.Finding {
	for _, h := range resp.SelectHeaders(signatureHeaders...) {
		finding := FindFinding(c.header, h.Value, Evidence{
			KeepLeft:   c.headerKeep,
			KeepRight:  c.headerKeep,
			Technology: c.technology,
			Template:   fmt.Sprintf(templateHeader, h.Name),
			URL:        resp.URL,
		})
		if finding != nil {
			return finding
		}
	}
	return nil
}
