// Package checker 根据探测结果识别技术及其版本
//
// 每个检查器只负责一种技术，正则在构造时编译一次，之后可重复使用。
package checker

import "Sanca/internal/model"

// TCPChecker 基于 TCP banner 的检查器，每组 banner 最多产生一个结果
type TCPChecker interface {
	Technology() model.Technology
	Check(banners []string) *model.Finding
}

// HTTPChecker 基于 HTTP 响应的检查器，可能产生多个结果
type HTTPChecker interface {
	Technology() model.Technology
	Check(responses []model.ProbeResponse) []model.Finding
}

// 证据描述模板
const (
	templateBanner    = `$techno_name$$techno_version$ has been identified using the banner it presents after initiating a TCP connection: $evidence$`
	templateHeader    = `$techno_name$$techno_version$ has been identified using the HTTP header "%s: $evidence$" returned at the following URL: $url_of_finding$`
	templateSignature = `$techno_name$$techno_version$ has been identified by looking at its signature "$evidence$" at this page: $url_of_finding$`
	templateFound     = `$techno_name$$techno_version$ has been identified because we found "$evidence$" at this url: $url_of_finding$`
	templatePHPInfo   = `$techno_name$$techno_version$ has been identified by looking at the phpinfo()'s output "$evidence$" at this page: $url_of_finding$`
)

// 服务器签名类检查器查看的响应头
var signatureHeaders = []string{"Server", "X-Powered-By"}
