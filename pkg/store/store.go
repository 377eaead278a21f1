package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 默认连接参数
const (
	DefaultAddress    = "127.0.0.1"
	DefaultPort       = 6379
	DefaultTimeout    = 20 * time.Second
	DefaultRetryCount = 4
)

// ErrCacheUnavailable 严格读取在重试耗尽后仍无值时返回
// 上层必须把它作为硬错误上报，不得静默吞掉
var ErrCacheUnavailable = errors.New("cache unavailable: error due cache reading")

// Conn 底层缓存连接的最小接口
// 约定：传输层故障折叠为未命中/写失败，由 Store 的重试策略兜底
type Conn interface {
	// Get 读取键值，未命中或连接故障时 ok 为 false
	Get(ctx context.Context, key string) (value string, ok bool)
	// Set 带过期时间写入键值，返回写入是否成功
	Set(ctx context.Context, key, value string, ttl time.Duration) bool
}

// Config 缓存连接配置
type Config struct {
	Address    string
	Port       int
	Timeout    time.Duration
	RetryCount int
}

// DefaultConfig 返回默认连接配置
func DefaultConfig() Config {
	return Config{
		Address:    DefaultAddress,
		Port:       DefaultPort,
		Timeout:    DefaultTimeout,
		RetryCount: DefaultRetryCount,
	}
}

// redisConn 基于 go-redis 的连接实现
// go-redis 客户端自身支持并发使用，这里不加任何请求级锁
type redisConn struct {
	client *redis.Client
}

func (c *redisConn) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil（未命中）与连接故障统一按未命中处理
		return "", false
	}
	return value, true
}

func (c *redisConn) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	return c.client.Set(ctx, key, value, ttl).Err() == nil
}

// Store 带重试的缓存客户端
//
// 设计说明：
//   - 重试只发生在未命中/失败结果上，成功结果从不重试
//   - 所有操作幂等，重试不会放大写入效果
//   - 连接是进程级共享的长生命周期状态；重试循环是单次调用的局部状态，
//     不跨网络往返持有任何锁
type Store struct {
	conn       Conn
	retryCount int
	log        *zap.Logger
}

// New 用给定连接创建 Store，logger 为 nil 时静默
func New(conn Conn, retryCount int, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{conn: conn, retryCount: retryCount, log: log}
}

// NewRedis 按配置建立 redis 连接并创建 Store
func NewRedis(cfg Config, log *zap.Logger) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		DB:           0,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	return New(&redisConn{client: client}, cfg.RetryCount, log)
}

// Get 严格读取：未命中时最多追加 retryCount 次重试，
// 仍无值则返回 ErrCacheUnavailable
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.getWithRetry(ctx, key)
	if !ok {
		return "", ErrCacheUnavailable
	}
	return value, nil
}

// CacheGet 宽松读取：重试策略与 Get 一致，但耗尽后返回未命中而不是错误
// 用于允许缓存缺失、可以重算的场景
func (s *Store) CacheGet(ctx context.Context, key string) (string, bool) {
	return s.getWithRetry(ctx, key)
}

// CacheSet 写入并验证：写失败时最多重试 retryCount 次，
// 每次通过回读确认值已持久化，确认即成功，全部耗尽才报失败
func (s *Store) CacheSet(ctx context.Context, key, value string, ttl time.Duration) bool {
	if s.conn.Set(ctx, key, value, ttl) {
		return true
	}
	for i := 0; i < s.retryCount; i++ {
		if stored, ok := s.conn.Get(ctx, key); ok && stored == value {
			return true
		}
		s.log.Debug("cache set verification missed",
			zap.String("key", key), zap.Int("attempt", i+1))
	}
	return false
}

// getWithRetry 首次读取加至多 retryCount 次未命中重试
func (s *Store) getWithRetry(ctx context.Context, key string) (string, bool) {
	value, ok := s.conn.Get(ctx, key)
	if ok {
		return value, true
	}
	for i := 0; i < s.retryCount; i++ {
		value, ok = s.conn.Get(ctx, key)
		if ok {
			return value, true
		}
		s.log.Debug("cache get missed, retrying",
			zap.String("key", key), zap.Int("attempt", i+1))
	}
	return "", false
}
