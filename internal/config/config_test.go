package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Reads yaml and fills defaults", func(t *testing.T) {
		// Given: a config file that only sets a few keys
		path := writeConfig(t, `
log-level: debug
redis:
  host: redis
game:
  max-dimension: 12
  ttl: 2h
`)

		// When: loading it
		conf := MustLoad(path)

		// Then: file values win and the rest falls back to defaults
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 8, conf.Game.DefaultRows)
		assert.Equal(t, 6, conf.Game.DefaultCols)
		assert.Equal(t, 3, conf.Game.MinDimension)
		assert.Equal(t, 12, conf.Game.MaxDimension)
		assert.Equal(t, 2*time.Hour, conf.Game.TTL)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		// Given: a file port and an env port
		path := writeConfig(t, "http-port: \"8080\"\n")
		t.Setenv("HTTP_PORT", "7070")

		// When: loading
		conf := MustLoad(path)

		// Then: the environment wins
		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
