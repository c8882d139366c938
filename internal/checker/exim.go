package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// NewEximChecker 创建 Exim 检查器
// 例如: 220 mail.example.com ESMTP Exim 4.92 Mon, 01 Jan 2024 10:00:00 +0000
func NewEximChecker() TCPChecker {
	return &bannerChecker{
		technology: model.Exim,
		regex:      regexp.MustCompile(`^\d\d\d ([a-zA-Z0-9-]+\.)?([a-zA-Z0-9-]+\.)?[a-zA-Z0-9-]+ (E?SMTP) Exim (?P<version>\d+\.\d+) `),
	}
}
