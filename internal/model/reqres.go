package model

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ProbeRequest 探测请求
// URL 是去重的键
type ProbeRequest struct {
	URL                string `json:"url"`
	FetchLinkedScripts bool   `json:"fetch_linked_scripts"`
}

// NewProbeRequest 创建探测请求
func NewProbeRequest(rawURL string, fetchLinkedScripts bool) ProbeRequest {
	return ProbeRequest{URL: rawURL, FetchLinkedScripts: fetchLinkedScripts}
}

// NewProbeRequestFromPath 根据主URL和路径片段生成探测请求
//
//	https://example.com/blog/index.php + /phpinfo.php => https://example.com/phpinfo.php
//	https://example.com/blog/index.php + phpinfo.php  => https://example.com/blog/phpinfo.php
func NewProbeRequestFromPath(mainURL, fragment string, fetchLinkedScripts bool) (ProbeRequest, error) {
	resolved, err := ResolvePath(mainURL, fragment)
	if err != nil {
		return ProbeRequest{}, err
	}
	return NewProbeRequest(resolved, fetchLinkedScripts), nil
}

// ResolvePath 将路径片段解析到基础URL上
//
// 以 / 开头的片段直接替换路径并丢弃查询串。相对片段：基础路径以 / 结尾时直接拼接；
// 基础路径最多一段时替换整个路径；否则去掉最后一段再拼接。相对片段保留基础查询串，
// 除非片段自带查询串。
func ResolvePath(baseURL, fragment string) (string, error) {
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return "", err
	}

	basePath := u.EscapedPath()
	if basePath == "" {
		basePath = "/"
	}

	var newPath string
	keepQuery := true
	switch {
	case strings.HasPrefix(fragment, "/"):
		newPath = fragment
		keepQuery = false
	case strings.HasSuffix(basePath, "/"):
		newPath = basePath + fragment
	default:
		segments := nonEmptySegments(basePath)
		if len(segments) <= 1 {
			newPath = "/" + fragment
		} else {
			newPath = "/" + strings.Join(segments[:len(segments)-1], "/") + "/" + fragment
		}
	}

	resolved := u.Scheme + "://" + u.Host + newPath
	if keepQuery && u.RawQuery != "" && !strings.Contains(fragment, "?") {
		resolved += "?" + u.RawQuery
	}
	return resolved, nil
}

// HostPort 返回URL的主机和端口，未指定端口时按协议取默认值
func HostPort(rawURL string) (string, int, error) {
	u, err := parseBaseURL(rawURL)
	if err != nil {
		return "", 0, err
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return "", 0, fmt.Errorf("%w: 端口无效 %s", ErrInvalidURL, rawURL)
		}
		return u.Hostname(), port, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
		return u.Hostname(), 443, nil
	case "http":
		return u.Hostname(), 80, nil
	}
	return "", 0, fmt.Errorf("%w: 未知协议 %s", ErrInvalidURL, u.Scheme)
}

func parseBaseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidURL, rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	return u, nil
}

func nonEmptySegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// ResponseKind 响应类型：主请求或页面中引用的脚本
type ResponseKind int

const (
	KindMain ResponseKind = iota
	KindLinkedScript
)

func (k ResponseKind) String() string {
	if k == KindLinkedScript {
		return "linked-script"
	}
	return "main"
}

// Header 规范化后的响应头，名称仅首字母大写
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NormalizeHeaderName 名称转小写后首字母大写，例如 X-Powered-By => X-powered-by
func NormalizeHeaderName(name string) string {
	lower := strings.ToLower(name)
	if lower == "" {
		return lower
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// NewHeaders 从原始响应头构建规范化的有序列表，同名头以 ", " 合并
func NewHeaders(raw map[string][]string) []Header {
	merged := make(map[string]string, len(raw))
	for name, values := range raw {
		key := NormalizeHeaderName(name)
		for _, v := range values {
			if existing, ok := merged[key]; ok {
				merged[key] = existing + ", " + v
			} else {
				merged[key] = v
			}
		}
	}

	headers := make([]Header, 0, len(merged))
	for name, value := range merged {
		headers = append(headers, Header{Name: name, Value: value})
	}
	sort.Slice(headers, func(i, j int) bool {
		return headers[i].Name < headers[j].Name
	})
	return headers
}

// ProbeResponse HTTP 探测响应
// 两个响应的 URL 相同即视为相同
type ProbeResponse struct {
	URL        string       `json:"url"`
	StatusCode int          `json:"status_code"`
	Headers    []Header     `json:"headers"`
	Body       string       `json:"body"`
	Kind       ResponseKind `json:"kind"`
}

// Header 不区分大小写地查找响应头
func (r ProbeResponse) Header(name string) (string, bool) {
	key := NormalizeHeaderName(name)
	for _, h := range r.Headers {
		if h.Name == key {
			return h.Value, true
		}
	}
	return "", false
}

// SelectHeaders 按给定顺序返回存在的响应头
func (r ProbeResponse) SelectHeaders(names ...string) []Header {
	var selected []Header
	for _, name := range names {
		if value, ok := r.Header(name); ok {
			selected = append(selected, Header{Name: NormalizeHeaderName(name), Value: value})
		}
	}
	return selected
}
