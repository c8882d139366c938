package checker

import (
	"net/http"
	"regexp"
	"strings"

	"Sanca/internal/model"
)

// WordPressChecker 通过 generator 标签和登录页的资源版本识别 WordPress
type WordPressChecker struct {
	meta  *regexp.Regexp
	login *regexp.Regexp
}

// NewWordPressChecker 创建 WordPress 检查器
func NewWordPressChecker() *WordPressChecker {
	return &WordPressChecker{
		meta:  regexp.MustCompile(`(?P<wholematch><meta\s+name\s*=\s*['"]generator['"]\s+content\s*=\s*['"]WordPress (?P<version>\d+\.\d+\.\d+)['"]\s*\/>)`),
		login: regexp.MustCompile(`(?P<wholematch>\?ver=(?P<version>\d+\.\d+\.\d+))`),
	}
}

func (c *WordPressChecker) Technology() model.Technology {
	return model.WordPress
}

// Check 只检查状态码为 200 的主请求
func (c *WordPressChecker) Check(responses []model.ProbeResponse) []model.Finding {
	for _, resp := range responses {
		if resp.Kind != model.KindMain || resp.StatusCode != http.StatusOK {
			continue
		}

		opts := Evidence{
			KeepLeft:   30,
			KeepRight:  30,
			Technology: model.WordPress,
			Template:   templateFound,
			URL:        resp.URL,
		}
		if finding := FindFinding(c.meta, resp.Body, opts); finding != nil {
			return []model.Finding{*finding}
		}

		// 登录页引用的 css/js 带有 ?ver=<WordPress版本>
		if strings.Contains(resp.URL, "/wp-login.php") {
			if finding := FindFinding(c.login, resp.Body, opts); finding != nil {
				return []model.Finding{*finding}
			}
		}
	}
	return nil
}
