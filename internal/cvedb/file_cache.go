package cvedb

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"Sanca/internal/model"
	"Sanca/internal/utils"
)

// FileCache 文件缓存，路径为 <root>/cves/<vendor>/<product>/<version>.json
type FileCache struct {
	root   string
	logger *utils.Logger
}

// NewFileCache 创建文件缓存
func NewFileCache(root string) *FileCache {
	return &FileCache{
		root:   root,
		logger: utils.NewLogger("file-cache"),
	}
}

// Path 缓存文件路径，键中包含路径分隔符或 .. 时返回 false
func (c *FileCache) Path(tech model.Technology, version string) (string, bool) {
	vendor, product, ok := cacheKey(tech, version)
	if !ok {
		return "", false
	}
	for _, part := range []string{vendor, product, version} {
		if !safePathComponent(part) {
			return "", false
		}
	}
	return filepath.Join(c.root, "cves", vendor, product, version+".json"), true
}

func safePathComponent(s string) bool {
	return s != "" && !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..")
}

// Read 读取缓存
func (c *FileCache) Read(tech model.Technology, version string) ([]model.CVE, bool) {
	path, ok := c.Path(tech, version)
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("读取缓存 %s 失败: %v", path, err)
		}
		return nil, false
	}

	var cves []model.CVE
	if err := json.Unmarshal(data, &cves); err != nil {
		c.logger.Warn("缓存 %s 格式错误: %v", path, err)
		return nil, false
	}

	c.logger.Debug("命中缓存 %s (%d 个CVE)", path, len(cves))
	return cves, true
}

// Store 写入缓存
// 完整写入临时文件后再链接到目标路径，第一次写入生效
func (c *FileCache) Store(cves []model.CVE, tech model.Technology, version string) {
	path, ok := c.Path(tech, version)
	if !ok {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		c.logger.Warn("创建缓存目录失败: %v", err)
		return
	}

	if cves == nil {
		cves = []model.CVE{}
	}
	data, err := json.Marshal(cves)
	if err != nil {
		c.logger.Warn("序列化 CVE 失败: %v", err)
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*.tmp")
	if err != nil {
		c.logger.Warn("创建临时缓存文件失败: %v", err)
		return
	}
	defer os.Remove(tmp.Name())

	writeErr := tmp.Chmod(0644)
	if writeErr == nil {
		_, writeErr = tmp.Write(data)
	}
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		c.logger.Warn("写入缓存文件 %s 失败: %v", tmp.Name(), errors.Join(writeErr, closeErr))
		return
	}

	// 目标已存在时 Link 返回 ErrExist
	if err := os.Link(tmp.Name(), path); err != nil {
		if !errors.Is(err, fs.ErrExist) {
			c.logger.Warn("创建缓存文件 %s 失败: %v", path, err)
		}
		return
	}
	c.logger.Debug("已缓存 %s", path)
}

// CompleteFinding 命中缓存时填充漏洞列表
func (c *FileCache) CompleteFinding(finding *model.Finding) bool {
	return completeFromCache(c, finding)
}
