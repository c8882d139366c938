package scanner

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// DecodeBody 解码响应体，不会失败
//
// Content-Type 或 BOM 明确声明了非 UTF-8 编码时按声明转码；合法的 UTF-8 原样返回；
// 其余情况按页面 meta 声明或探测结果转码，无法解码的字节替换为 U+FFFD
func DecodeBody(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}

	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if (certain && name != "utf-8") || (!certain && !utf8.Valid(body)) {
		if decoded, err := enc.NewDecoder().Bytes(body); err == nil {
			return strings.ToValidUTF8(string(decoded), "\uFFFD")
		}
	}
	return strings.ToValidUTF8(string(body), "\uFFFD")
}

// DecodeBanner 将 banner 按 UTF-8 解码，非法字节替换为 U+FFFD
func DecodeBanner(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}
