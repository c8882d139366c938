package scanner

import (
	"regexp"
	"strings"

	"Sanca/internal/model"
)

// linkExtractor 从页面中提取需要继续请求的地址
type linkExtractor struct {
	script     *regexp.Regexp
	symfony    *regexp.Regexp
	symfonyOld *regexp.Regexp
}

func newLinkExtractor() *linkExtractor {
	return &linkExtractor{
		script: regexp.MustCompile(`<script[^>]+src\s*=\s*["']?\s*(?P<url>(((?P<protocol>[a-z0-9]+):)?\/\/(?P<hostname>[^\/:]+)(:(?P<port>\d{1,5}))?)?(?P<path>\/?[a-zA-Z0-9\/._ %@-]*(?P<extension>\.[a-zA-Z0-9_-]+)?)?(?P<querystring>\?[^#\s'">]*)?(#[^'">\s]*)?)\s*["']?`),
		// Symfony 调试工具栏
		symfony:    regexp.MustCompile(`<script[^>]*>.*Sfjs.loadToolbar\(['"](?P<profilertoken>[a-f0-9]+)['"]\)`),
		symfonyOld: regexp.MustCompile(`Sfjs\.load\(\s*['"]sfwdt(?P<profilertoken>[a-f0-9]+)['"]`),
	}
}

// Scripts 按出现顺序返回页面引用的脚本地址，无法解析的地址被忽略
func (e *linkExtractor) Scripts(requestURL, body string) []string {
	urlIdx := e.script.SubexpIndex("url")
	protocolIdx := e.script.SubexpIndex("protocol")
	hostnameIdx := e.script.SubexpIndex("hostname")

	var urls []string
	seen := make(map[string]bool)
	for _, m := range e.script.FindAllStringSubmatchIndex(body, -1) {
		if m[2*urlIdx] < 0 {
			continue
		}
		link := strings.TrimSpace(body[m[2*urlIdx]:m[2*urlIdx+1]])
		if link == "" {
			continue
		}

		// 省略协议的地址 //cdn.example.com/x.js 沿用当前请求的协议
		if m[2*protocolIdx] < 0 && m[2*hostnameIdx] >= 0 {
			if strings.HasPrefix(requestURL, "http://") {
				link = "http:" + link
			} else {
				link = "https:" + link
			}
		}

		if !strings.HasPrefix(link, "https://") && !strings.HasPrefix(link, "http://") {
			resolved, err := model.ResolvePath(requestURL, link)
			if err != nil {
				continue
			}
			link = resolved
		}

		if !seen[link] {
			seen[link] = true
			urls = append(urls, link)
		}
	}
	return urls
}

// SymfonyProfiler 页面包含调试工具栏时返回 profiler 配置页地址
func (e *linkExtractor) SymfonyProfiler(requestURL, body string) (string, bool) {
	if m := e.symfony.FindStringSubmatch(body); m != nil {
		token := m[e.symfony.SubexpIndex("profilertoken")]
		return profilerURL(requestURL, token)
	}
	if m := e.symfonyOld.FindStringSubmatch(body); m != nil {
		token := m[e.symfonyOld.SubexpIndex("profilertoken")]
		return profilerURL(requestURL+"/", token)
	}
	return "", false
}

func profilerURL(base, token string) (string, bool) {
	resolved, err := model.ResolvePath(base, "_profiler/"+token+"?panel=config")
	if err != nil {
		return "", false
	}
	return resolved, true
}
