package checker

import (
	"regexp"

	"Sanca/internal/model"
)

// NewHttpdChecker 创建 Apache httpd 检查器
func NewHttpdChecker() HTTPChecker {
	return &signatureChecker{
		technology:    model.Httpd,
		header:        regexp.MustCompile(`^(?P<wholematch>.*Apache(\/(?P<version>\d+(\.\d+(\.\d+)?)?))?.*)`),
		headerKeep:    45,
		body:          regexp.MustCompile(`<address>(?P<wholematch>Apache((\/(?P<version>\d+\.\d+\.\d+)( \([^\)]+\)))? Server at (<a href=.[a-zA-Z0-9.@:+_-]*.>)?[a-zA-Z0-9-.]+(</a>)? Port \d+)?)</address>`),
		bodyKeepLeft:  45,
		bodyKeepRight: 45,
		bodyTemplate:  templateSignature,
	}
}
