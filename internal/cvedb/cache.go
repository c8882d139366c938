// Package cvedb 查询技术版本对应的已知漏洞，并在本地缓存查询结果
package cvedb

import (
	"fmt"
	"strings"

	"Sanca/internal/config"
	"Sanca/internal/model"
)

// CacheManager 漏洞缓存
// 同一 (vendor, product, version) 第一次写入后不再覆盖
type CacheManager interface {
	// Read 读取缓存，不存在或无法解析时返回 false
	Read(tech model.Technology, version string) ([]model.CVE, bool)
	// Store 写入缓存，已存在时不做任何修改
	Store(cves []model.CVE, tech model.Technology, version string)
	// CompleteFinding 命中缓存时填充识别结果的漏洞列表
	CompleteFinding(finding *model.Finding) bool
}

// NewCache 按配置创建缓存，类型为 none 时返回 nil
// 返回的 close 函数总是非空
func NewCache(cfg config.CacheConfig) (CacheManager, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Type) {
	case "files", "":
		return NewFileCache(cfg.Dir), noop, nil
	case "sqlite":
		cache, err := NewSQLiteCache(cfg.ResolvedSQLitePath())
		if err != nil {
			return nil, noop, err
		}
		return cache, cache.Close, nil
	case "none":
		return nil, noop, nil
	}
	return nil, noop, fmt.Errorf("无效的缓存类型: %s", cfg.Type)
}

func completeFromCache(c CacheManager, finding *model.Finding) bool {
	if finding.Version == "" {
		return false
	}

	cves, ok := c.Read(finding.Technology, finding.Version)
	if !ok {
		return false
	}

	finding.Vulnerabilities = make([]model.CVE, 0, len(cves))
	for _, cve := range cves {
		finding.AddVulnerability(cve)
	}
	return true
}

// cacheKey 返回缓存键，技术没有 CPE 或版本为空时 ok 为 false
func cacheKey(tech model.Technology, version string) (vendor, product string, ok bool) {
	_, vendor, product = tech.CPE()
	if vendor == "" || product == "" || version == "" {
		return "", "", false
	}
	return vendor, product, true
}
