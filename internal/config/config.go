// Package config 定义扫描器配置，并通过 viper 从文件、环境变量和命令行参数加载
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config 应用配置
type Config struct {
	Scan   ScanConfig   `yaml:"scan" mapstructure:"scan"`
	HTTP   HTTPConfig   `yaml:"http" mapstructure:"http"`
	TCP    TCPConfig    `yaml:"tcp" mapstructure:"tcp"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	NVD    NVDConfig    `yaml:"nvd" mapstructure:"nvd"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// ScanConfig 扫描配置
type ScanConfig struct {
	Type         string   `yaml:"type" mapstructure:"type"`                 // tcp, http
	Technologies []string `yaml:"technologies" mapstructure:"technologies"` // 为空表示全部
	Threads      int      `yaml:"threads" mapstructure:"threads"`           // TCP 端口并发数
	Proxy        string   `yaml:"proxy" mapstructure:"proxy"`               // socks5://host:port
}

// HTTPConfig HTTP 读取器配置
type HTTPConfig struct {
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// TCPConfig TCP 读取器配置
type TCPConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	MaxBytes       int           `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// CacheConfig 漏洞缓存配置
type CacheConfig struct {
	Type       string `yaml:"type" mapstructure:"type"` // files, sqlite, none
	Dir        string `yaml:"dir" mapstructure:"dir"`
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// NVDConfig NVD 接口配置
type NVDConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"` // 可选，提高请求配额
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`         // debug, info, warn, error
	Format     string `yaml:"format" mapstructure:"format"`       // text, json
	Output     string `yaml:"output" mapstructure:"output"`       // stderr, stdout, file
	FilePath   string `yaml:"file_path" mapstructure:"file_path"` // output 为 file 时使用
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`   // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // 天
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// OutputConfig 报告输出配置
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, json, csv, yaml
	File   string `yaml:"file" mapstructure:"file"`
}

// Defaults 默认配置项，键名与配置文件一致
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"scan.type":           "http",
		"scan.technologies":   []string{},
		"scan.threads":        20,
		"scan.proxy":          "",
		"http.user_agent":     "Sanca",
		"http.timeout":        10 * time.Second,
		"http.max_body_bytes": int64(5 << 20),
		"tcp.connect_timeout": 5 * time.Second,
		"tcp.read_timeout":    time.Second,
		"tcp.max_bytes":       200,
		"cache.type":          "files",
		"cache.dir":           DefaultCacheDir(),
		"cache.sqlite_path":   "",
		"nvd.enabled":         true,
		"nvd.base_url":        "https://services.nvd.nist.gov/rest/json/cves/2.0",
		"nvd.timeout":         30 * time.Second,
		"nvd.api_key":         "",
		"log.level":           "info",
		"log.format":          "text",
		"log.output":          "stderr",
		"log.file_path":       "",
		"log.max_size":        10,
		"log.max_backups":     3,
		"log.max_age":         7,
		"log.compress":        false,
		"output.format":       "text",
		"output.file":         "",
	}
}

// DefaultCacheDir 可执行文件所在目录，取不到时使用当前目录
func DefaultCacheDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolvedSQLitePath 未配置时放在缓存目录下
func (c CacheConfig) ResolvedSQLitePath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.Dir, "cves", "cache.db")
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch strings.ToLower(c.Scan.Type) {
	case "tcp", "http", "udp":
	default:
		return fmt.Errorf("无效的扫描类型: %s", c.Scan.Type)
	}

	if c.Scan.Threads < 1 {
		return fmt.Errorf("并发数必须大于 0: %d", c.Scan.Threads)
	}

	if c.TCP.MaxBytes < 1 {
		return fmt.Errorf("TCP 读取字节数必须大于 0: %d", c.TCP.MaxBytes)
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP 超时时间必须大于 0: %s", c.HTTP.Timeout)
	}

	switch strings.ToLower(c.Cache.Type) {
	case "files", "sqlite", "none":
	default:
		return fmt.Errorf("无效的缓存类型: %s", c.Cache.Type)
	}

	switch strings.ToLower(c.Output.Format) {
	case "text", "json", "csv", "yaml":
	default:
		return fmt.Errorf("无效的输出格式: %s", c.Output.Format)
	}

	if c.Scan.Proxy != "" && !strings.HasPrefix(c.Scan.Proxy, "socks5://") {
		return fmt.Errorf("只支持 socks5 代理: %s", c.Scan.Proxy)
	}

	return nil
}
