package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// NewOpenSSHChecker 创建 OpenSSH 检查器
// 例如: SSH-2.0-OpenSSH_6.7p1 Debian-5
func NewOpenSSHChecker() TCPChecker {
	return &bannerChecker{
		technology: model.OpenSSH,
		regex:      regexp.MustCompile(`^SSH-(\d+\.\d+)-OpenSSH_(?P<version>\d+\.\d+([a-z]\d+)?)`),
	}
}
