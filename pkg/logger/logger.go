package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug/info/warn/error
	Level string
	// File 日志文件路径，空串表示只输出到标准错误
	File string
	// MaxSizeMB 单个日志文件上限（MB），超过后轮转
	MaxSizeMB int
	// MaxBackups 保留的历史文件数量
	MaxBackups int
	// MaxAgeDays 历史文件保留天数
	MaxAgeDays int
}

// DefaultConfig 返回默认日志配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init 按配置初始化全局日志器
// 配置了文件路径时走 lumberjack 轮转写入，同时保留标准错误输出
func Init(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level <%s>: %w", cfg.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}
	if cfg.File != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level)
	log := zap.New(core, zap.AddCaller())

	mu.Lock()
	global = log
	mu.Unlock()
	return log, nil
}

// L 获取全局日志器，未初始化时静默
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync 刷新缓冲的日志条目，进程退出前调用
func Sync() {
	_ = L().Sync()
}
