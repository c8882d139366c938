package model

import "errors"

var (
	// ErrInvalidURL URL 无法解析
	ErrInvalidURL = errors.New("invalid url")
	// ErrUnknownTechnology 技术不在目录中
	ErrUnknownTechnology = errors.New("unknown technology")
	// ErrUnsupportedScan 扫描类型不支持
	ErrUnsupportedScan = errors.New("unsupported scan type")
)
