package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// NewProFTPDChecker 创建 ProFTPD 检查器
// 例如: 220 ProFTPD 1.3.5e Server (Debian) [::ffff:127.0.0.1]
func NewProFTPDChecker() TCPChecker {
	return &bannerChecker{
		technology: model.ProFTPD,
		regex:      regexp.MustCompile(`^\d\d\d ProFTPD (?P<version>\d+\.\d+\.\d+[a-z]?) Server \((.+)\)`),
	}
}
