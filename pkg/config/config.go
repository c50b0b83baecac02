package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/justinwongcn/checkin/pkg/errorutil"
)

const (
	// DefaultEndpoint 签到接口地址
	DefaultEndpoint = "https://glados.rocks/api/user/checkin"
	// DefaultToken 请求体中标识客户端的 token
	DefaultToken = "glados.one"
	// DefaultHTTPTimeout 单次请求超时
	DefaultHTTPTimeout = 30 * time.Second
)

// Config 单次运行配置（加载后只读）
type Config struct {
	Accounts   []Account   `mapstructure:"accounts"`
	MaxRetries uint        `mapstructure:"max_retries"`
	RetryDelay uint        `mapstructure:"retry_delay"` // 重试间隔（秒）
	LogFile    string      `mapstructure:"log_file"`
	LogLevel   string      `mapstructure:"log_level"`
	Endpoint   string      `mapstructure:"endpoint"`
	Token      string      `mapstructure:"token"`
	HTTP       HTTPConfig  `mapstructure:"http"`
	Sinks      SinksConfig `mapstructure:"sinks"`
}

// Account 签到账户
type Account struct {
	Email  string `mapstructure:"email"`
	Cookie string `mapstructure:"cookie"`
}

// HTTPConfig HTTP 客户端配置
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Proxy   string        `mapstructure:"proxy"` // 为空时使用环境变量中的代理
}

// SinksConfig 附加日志输出（可选）
type SinksConfig struct {
	Redis  *RedisConfig  `mapstructure:"redis"`
	MySQL  *MySQLConfig  `mapstructure:"mysql"`
	Lmstfy *LmstfyConfig `mapstructure:"lmstfy"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// MySQLConfig MySQL 配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
	Queue     string `mapstructure:"queue"`
}

// RetryDelayDuration 返回重试间隔
func (c *Config) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// Load 加载配置文件（.yaml/.yml 按 YAML 解析，其余按 JSON 解析，扩展名区分大小写）
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(configType(configPath))

	v.SetDefault("log_level", "info")
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("token", DefaultToken)
	v.SetDefault("http.timeout", DefaultHTTPTimeout)

	if err := v.ReadInConfig(); err != nil {
		return nil, errorutil.Config(fmt.Errorf("read config failed: %w", err))
	}
	// retry_delay 为 0 是合法值，只能在解码前判断是否缺失
	if !v.IsSet("retry_delay") {
		return nil, errorutil.Config(fmt.Errorf("missing field retry_delay"))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errorutil.Config(fmt.Errorf("unmarshal config failed: %w", err))
	}

	return &cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if len(c.Accounts) == 0 {
		return errorutil.Config(fmt.Errorf("no accounts configured"))
	}
	if c.MaxRetries == 0 {
		return errorutil.Config(fmt.Errorf("max_retries must be greater than 0"))
	}
	if c.LogFile == "" {
		return errorutil.Config(fmt.Errorf("log_file path must not be empty"))
	}
	for i, a := range c.Accounts {
		if a.Email == "" {
			return errorutil.Config(fmt.Errorf("accounts[%d].email must not be empty", i))
		}
		if a.Cookie == "" {
			return errorutil.Config(fmt.Errorf("accounts[%d].cookie must not be empty", i))
		}
	}
	return nil
}

func configType(path string) string {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
