package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// NewNginxChecker 创建 Nginx 检查器
// 响应头例如 nginx/1.22.3 (Debian)，错误页例如 <hr><center>nginx/1.22.3</center>
func NewNginxChecker() HTTPChecker {
	return &signatureChecker{
		technology:    model.Nginx,
		header:        regexp.MustCompile(`^(?P<wholematch>nginx(\/(?P<version>\d+(\.\d+(\.\d+)?)?))?)`),
		headerKeep:    45,
		body:          regexp.MustCompile(`<hr><center>(?P<wholematch>nginx(\/(?P<version>\d+\.\d+\.\d+)( \([^\)]+\)))?)</center>`),
		bodyKeepLeft:  10,
		bodyKeepRight: 15,
		bodyTemplate:  templateSignature,
	}
}
