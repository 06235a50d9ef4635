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

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"listen_addr":   "www.example:9000",
		"store_driver":  "sqlite",
		"database_dsn":  "users.db",
		"round_timeout": "45s",
		"smtp_host":     "relay",
		"smtp_port":     "2525",
		"smtp_username": "user",
		"smtp_password": "password",
		"smtp_from":     "noreply@example.com",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.ListenAddr)
		assert.Equal(t, "sqlite", cfg.StoreDriver)
		assert.Equal(t, "users.db", cfg.DatabaseDSN)
		assert.Equal(t, 45*time.Second, cfg.RoundTimeout)
		assert.Equal(t, "relay", cfg.SMTPHost)
		assert.Equal(t, "2525", cfg.SMTPPort)
		assert.Equal(t, "user", cfg.SMTPUsername)
		assert.Equal(t, "password", cfg.SMTPPassword)
		assert.Equal(t, "noreply@example.com", cfg.SMTPFrom)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ListenAddr: "defaults:1234", StoreDriver: "memory"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ListenAddr)
		assert.Equal(t, "memory", cfg.StoreDriver)
	})

	t.Run("panics on missing file", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "absent.json")}

		assert.Panics(t, func() {
			cfg := &Config{}
			parseJson(cfg)
		})
	})
}
