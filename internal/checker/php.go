package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// NewPHPChecker 创建 PHP 检查器
// 查看 Server/X-Powered-By 响应头和 phpinfo() 页面
func NewPHPChecker() HTTPChecker {
	return &signatureChecker{
		technology:    model.PHP,
		header:        regexp.MustCompile(`(?P<wholematch>.*PHP\/(?P<version>\d+\.\d+(\.\d+(\.\d+)?)?).*)`),
		headerKeep:    45,
		body:          regexp.MustCompile(`(?P<wholematch><h1 class="p">PHP Version (?P<version>\d+\.\d+\.\d+(-[a-z0-9._-]+)?)</h1>)`),
		bodyKeepLeft:  30,
		bodyKeepRight: 30,
		bodyTemplate:  templatePHPInfo,
	}
}
