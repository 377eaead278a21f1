package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)

	sc := cfg.StoreConfig()
	assert.Equal(t, "127.0.0.1", sc.Address)
	assert.Equal(t, 6379, sc.Port)
	assert.Equal(t, 20*time.Second, sc.Timeout)
	assert.Equal(t, 4, sc.RetryCount)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9090
log:
  level: debug
redis:
  address: cache.internal
  retry_count: 2
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "cache.internal", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.RetryCount)
	// 未覆盖的键保持默认值
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"端口越界", "server:\n  port: 70000\n"},
		{"非法日志级别", "log:\n  level: loud\n"},
		{"超时为0", "redis:\n  timeout_seconds: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err, "显式指定的配置文件必须存在")
}
