package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// NewMariaDBChecker 创建 MariaDB 检查器
// 例如: 5.5.5-10.3.38-MariaDB-0ubuntu0.20.04.1
func NewMariaDBChecker() TCPChecker {
	return &bannerChecker{
		technology: model.MariaDB,
		regex:      regexp.MustCompile(`\d+\.\d+\.\d+\-(?P<version>\d+\.\d+\.\d+)-MariaDB`),
	}
}
