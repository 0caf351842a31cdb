package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeConfigFile(t, dir, "client.json", map[string]any{
		"server_endpoint_addr":  "todo.example:50051",
		"online_check_interval": "15s",
		"cache_file":            "/var/cache/gophtodo/todos.db",
	})
	noCache := writeConfigFile(t, dir, "nocache.json", map[string]any{
		"server_endpoint_addr":  "todo.example:50052",
		"online_check_interval": 2000000000,
	})

	t.Run("short flag loads every field", func(t *testing.T) {
		os.Args = []string{"gophtodo", "-c", full, "-a", "ignored:1"}

		cfg := &Config{CacheFile: "todos.db"}
		parseJson(cfg)

		assert.Equal(t, "todo.example:50051", cfg.ServerEndpointAddr)
		assert.Equal(t, 15*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, "/var/cache/gophtodo/todos.db", cfg.CacheFile)
	})

	t.Run("missing cache_file keeps previous value", func(t *testing.T) {
		os.Args = []string{"gophtodo", "-config", noCache}

		cfg := &Config{CacheFile: "todos.db"}
		parseJson(cfg)

		assert.Equal(t, "todo.example:50052", cfg.ServerEndpointAddr)
		assert.Equal(t, 2*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, "todos.db", cfg.CacheFile)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"gophtodo", "-d", "/tmp/other.db"}

		cfg := &Config{
			ServerEndpointAddr:  "localhost:50051",
			OnlineCheckInterval: 42 * time.Second,
			CacheFile:           "todos.db",
		}
		parseJson(cfg)

		assert.Equal(t, "localhost:50051", cfg.ServerEndpointAddr)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, "todos.db", cfg.CacheFile)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"gophtodo", "-c", filepath.Join(dir, "absent.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"cache_file": `), 0o600))

		os.Args = []string{"gophtodo", "-config", bad}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
