package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"Sanca/internal/config"
)

// 毫秒精度时间戳，不显示时区
const timestampFormat = "2006-01-02 15:04:05.000"

// base 所有命名日志器共享的 logrus 实例，默认输出到 stderr，stdout 只留给扫描报告
var base = newBaseLogger()

func newBaseLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{TimestampFormat: timestampFormat, FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// InitLogger 根据配置设置日志级别、格式和输出
func InitLogger(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text", "":
		base.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
		})
	default:
		return fmt.Errorf("不支持的日志格式: %s", cfg.Format)
	}

	out, err := logOutput(cfg)
	if err != nil {
		return err
	}
	base.SetOutput(out)
	base.SetLevel(level)
	return nil
}

func logOutput(cfg config.LogConfig) (io.Writer, error) {
	switch strings.ToLower(cfg.Output) {
	case "stderr", "":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("日志输出为 file 时必须指定 file_path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
		return &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}, nil
	}
	return nil, fmt.Errorf("不支持的日志输出: %s", cfg.Output)
}

// Logger 带组件名的日志器
type Logger struct {
	name string
}

func NewLogger(name string) *Logger {
	return &Logger{name: name}
}

func (l *Logger) entry() *logrus.Entry {
	return base.WithField("component", l.name)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.entry().Infof(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.entry().Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry().Debugf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry().Warnf(format, args...)
}

// DebugEnabled 是否输出调试日志，用于跳过代价较高的日志参数构造
func (l *Logger) DebugEnabled() bool {
	return base.IsLevelEnabled(logrus.DebugLevel)
}
