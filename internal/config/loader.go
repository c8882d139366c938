package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 SANCA_HTTP_TIMEOUT
const EnvPrefix = "SANCA"

// Loader 配置加载器
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
type Loader struct {
	viper      *viper.Viper
	configFile string
	envFiles   []string
}

// NewLoader 创建配置加载器，configFile 为空时在 . 和 ./configs 中查找 sanca.yaml
func NewLoader(configFile string, envFiles ...string) *Loader {
	l := &Loader{
		viper:      viper.New(),
		configFile: configFile,
		envFiles:   envFiles,
	}

	for key, value := range Defaults() {
		l.viper.SetDefault(key, value)
	}

	l.viper.SetConfigType("yaml")
	l.viper.SetEnvPrefix(EnvPrefix)
	l.viper.AutomaticEnv()
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return l
}

// BindFlag 将命令行参数绑定到配置键
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("配置键 %s 绑定的参数不存在", key)
	}
	return l.viper.BindPFlag(key, flag)
}

// Load 加载配置并校验
func (l *Loader) Load() (*Config, error) {
	if err := NewEnvLoader(l.envFiles...).Load(); err != nil {
		return nil, err
	}

	if err := l.readConfigFile(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) readConfigFile() error {
	if l.configFile != "" {
		l.viper.SetConfigFile(l.configFile)
		if err := l.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("读取配置文件 %s 失败: %w", l.configFile, err)
		}
		return nil
	}

	l.viper.SetConfigName("sanca")
	l.viper.AddConfigPath(".")
	l.viper.AddConfigPath("./configs")
	if err := l.viper.ReadInConfig(); err != nil {
		// 没有配置文件时只使用默认值和环境变量
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("读取配置文件失败: %w", err)
	}
	return nil
}
