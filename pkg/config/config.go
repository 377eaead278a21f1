package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"katydid-common-scoring/pkg/logger"
	"katydid-common-scoring/pkg/store"
)

// Config 进程配置
// 来源优先级：环境变量（SCORING_ 前缀）> 配置文件 > 默认值
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Log    LogConfig    `mapstructure:"log" validate:"required"`
	Redis  RedisConfig  `mapstructure:"redis" validate:"required"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	// Host 监听地址
	Host string `mapstructure:"host"`
	// Port 监听端口
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// RedisConfig 缓存连接配置
type RedisConfig struct {
	Address        string `mapstructure:"address" validate:"required"`
	Port           int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
	RetryCount     int    `mapstructure:"retry_count" validate:"gte=0"`
}

// Load 加载并校验配置
// path 为空时只使用默认值和环境变量；显式指定的文件必须存在
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SCORING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file <%s>: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults 默认值与原始部署参数保持一致
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)

	lg := logger.DefaultConfig()
	v.SetDefault("log.level", lg.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", lg.MaxSizeMB)
	v.SetDefault("log.max_backups", lg.MaxBackups)
	v.SetDefault("log.max_age_days", lg.MaxAgeDays)

	sc := store.DefaultConfig()
	v.SetDefault("redis.address", sc.Address)
	v.SetDefault("redis.port", sc.Port)
	v.SetDefault("redis.timeout_seconds", int(sc.Timeout/time.Second))
	v.SetDefault("redis.retry_count", sc.RetryCount)
}

// LoggerConfig 转换为日志模块配置
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

// StoreConfig 转换为缓存模块配置
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Address:    c.Redis.Address,
		Port:       c.Redis.Port,
		Timeout:    time.Duration(c.Redis.TimeoutSeconds) * time.Second,
		RetryCount: c.Redis.RetryCount,
	}
}

// Addr 返回服务监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
