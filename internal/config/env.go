package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvLoader 从 .env 文件加载环境变量
// 已存在的环境变量不会被覆盖
type EnvLoader struct {
	envFiles []string
}

// NewEnvLoader 创建环境变量加载器，未指定文件时使用 .env
func NewEnvLoader(envFiles ...string) *EnvLoader {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	return &EnvLoader{envFiles: envFiles}
}

// Load 加载全部 .env 文件，文件不存在不算错误
func (e *EnvLoader) Load() error {
	for _, envFile := range e.envFiles {
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("加载 %s 失败: %w", envFile, err)
		}
	}
	return nil
}
