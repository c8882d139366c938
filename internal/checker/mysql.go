package checker

import (
	"regexp"
	"strings"

	"Sanca/internal/model"
)

// NewMySQLChecker 创建 MySQL 检查器
// 握手包中包含服务端版本和认证插件名，例如 5.7.37-log...mysql_native_password
func NewMySQLChecker() TCPChecker {
	return &bannerChecker{
		technology: model.MySQL,
		regex:      regexp.MustCompile(`(?s)(?P<version>\d+\.\d+\.\d+).+mysql_native_password`),
		// MariaDB 的握手包格式相同
		skip: func(banner string) bool {
			return strings.Contains(strings.ToLower(banner), "mariadb")
		},
	}
}
