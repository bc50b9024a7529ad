package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults for omitted keys", func(t *testing.T) {
		path := writeConfig(t, `
[server]
name = "shop"

[database]
driver = "sqlite"
dsn = "shop.db"
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "shop", cfg.Server.Name)
		assert.Equal(t, 8080, cfg.Server.HTTP.Port)
		assert.Equal(t, "sessionid", cfg.Session.CookieName)
		assert.Equal(t, "cart_session", cfg.Session.CartCookieName)
		assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
		assert.Equal(t, 14*24*time.Hour, cfg.Session.RememberTTL)
		assert.Equal(t, "media", cfg.Media.Root)
		assert.Empty(t, cfg.Kafka.Brokers)
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		path := writeConfig(t, `
[server]
name = "shop"
[server.http]
port = 8000

[database]
driver = "sqlite"
dsn = "shop.db"
`)
		t.Setenv("APP_SERVER_HTTP_PORT", "9001")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9001, cfg.Server.HTTP.Port)
		assert.Equal(t, "0.0.0.0:9001", cfg.Server.HTTP.Addr())
	})

	t.Run("parses durations", func(t *testing.T) {
		path := writeConfig(t, `
[database]
driver = "sqlite"
dsn = "shop.db"

[session]
ttl = "2h"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		path := writeConfig(t, `
[database]
driver = "oracle"
dsn = "x"
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:   ServerConfig{Name: "shop", HTTP: HTTPConfig{Port: 8080}},
			Database: DatabaseConfig{Driver: "mysql", DSN: "dsn"},
			Session:  SessionConfig{CookieName: "a", CartCookieName: "b"},
		}
	}

	t.Run("fills environment", func(t *testing.T) {
		cfg := base()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "dev", cfg.Server.Environment)
	})

	t.Run("cookie names must differ", func(t *testing.T) {
		cfg := base()
		cfg.Session.CartCookieName = "a"
		assert.Error(t, cfg.Validate())
	})

	t.Run("admin password required with username", func(t *testing.T) {
		cfg := base()
		cfg.Admin.Username = "root"
		assert.Error(t, cfg.Validate())
	})

	t.Run("dsn required", func(t *testing.T) {
		cfg := base()
		cfg.Database.DSN = ""
		assert.Error(t, cfg.Validate())
	})
}
