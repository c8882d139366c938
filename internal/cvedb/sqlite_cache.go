package cvedb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"Sanca/internal/model"
	"Sanca/internal/utils"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache 将漏洞缓存保存在一个 SQLite 数据库中
type SQLiteCache struct {
	db     *sql.DB
	path   string
	logger *utils.Logger
}

// NewSQLiteCache 打开（必要时创建）缓存数据库
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	// sqlite 同一时间只允许一个写连接
	db.SetMaxOpenConns(1)

	cache := &SQLiteCache{
		db:     db,
		path:   dbPath,
		logger: utils.NewLogger("sqlite-cache"),
	}

	if err := cache.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}
	return cache, nil
}

func (c *SQLiteCache) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cve_cache (
		vendor TEXT NOT NULL,
		product TEXT NOT NULL,
		version TEXT NOT NULL,
		cves_json TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (vendor, product, version)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Read 读取缓存
func (c *SQLiteCache) Read(tech model.Technology, version string) ([]model.CVE, bool) {
	vendor, product, ok := cacheKey(tech, version)
	if !ok {
		return nil, false
	}

	var data string
	err := c.db.QueryRow(
		`SELECT cves_json FROM cve_cache WHERE vendor = ? AND product = ? AND version = ?`,
		vendor, product, version,
	).Scan(&data)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Warn("查询缓存失败: %v", err)
		}
		return nil, false
	}

	var cves []model.CVE
	if err := json.Unmarshal([]byte(data), &cves); err != nil {
		c.logger.Warn("缓存 %s:%s:%s 格式错误: %v", vendor, product, version, err)
		return nil, false
	}
	return cves, true
}

// Store 写入缓存，已存在的记录保持不变
func (c *SQLiteCache) Store(cves []model.CVE, tech model.Technology, version string) {
	vendor, product, ok := cacheKey(tech, version)
	if !ok {
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

	_, err = c.db.Exec(
		`INSERT OR IGNORE INTO cve_cache (vendor, product, version, cves_json) VALUES (?, ?, ?, ?)`,
		vendor, product, version, string(data),
	)
	if err != nil {
		c.logger.Warn("写入缓存失败: %v", err)
	}
}

// CompleteFinding 命中缓存时填充漏洞列表
func (c *SQLiteCache) CompleteFinding(finding *model.Finding) bool {
	return completeFromCache(c, finding)
}

// Count 缓存记录数
func (c *SQLiteCache) Count() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM cve_cache").Scan(&count)
	return count, err
}

// Close 关闭数据库
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
