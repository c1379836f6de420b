package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeYAML(t, "app:\n  app_env: dev\n")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, "5m", c.Cache.PublicPageTTL)
	assert.Equal(t, "15m", c.JWT.AccessTTL)
	assert.Equal(t, 10, c.Rate.Login.Limit)
	assert.Equal(t, 5, c.Rate.Inquiry.Limit)
	assert.Equal(t, "fs", c.Media.Driver)
	assert.Equal(t, 10, c.Media.MaxUploadMB)
	assert.Equal(t, 4, c.Batch.Concurrency)
	assert.Equal(t, 90, c.Scheduler.AnalyticsRetentionDays)
	assert.Equal(t, 10, c.Security.PasswordPolicy.MinLength)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeYAML(t, "jwt:\n  access_ttl: cinco-minutos\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("CACHE_KIND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_LOGIN_LIMIT", "99")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.com, https://b.com")

	path := writeYAML(t, "app:\n  app_env: dev\nserver:\n  addr: \":8080\"\n")
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", c.Server.Addr)
	assert.Equal(t, "redis", c.Cache.Kind)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Addr)
	assert.Equal(t, 99, c.Rate.Login.Limit)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, c.Server.CORSAllowedOrigins)
}

func TestValidate_ProdRequiresSecrets(t *testing.T) {
	path := writeYAML(t, "app:\n  app_env: prod\n")
	_, err := Load(path)
	assert.Error(t, err)

	path = writeYAML(t, `app:
  app_env: prod
jwt:
  secret: super-secret
storage:
  dsn: postgres://x
`)
	_, err = Load(path)
	assert.NoError(t, err)
}

func TestValidate_EnumFields(t *testing.T) {
	_, err := Load(writeYAML(t, "cache:\n  kind: memcached\n"))
	assert.Error(t, err)

	_, err = Load(writeYAML(t, "media:\n  driver: gcs\n"))
	assert.Error(t, err)

	// driver s3 sin bucket
	_, err = Load(writeYAML(t, "media:\n  driver: s3\n"))
	assert.Error(t, err)
}

func TestDur(t *testing.T) {
	assert.Equal(t, 5*time.Minute, Dur("5m", time.Hour))
	assert.Equal(t, time.Hour, Dur("", time.Hour))
	assert.Equal(t, time.Hour, Dur("garbage", time.Hour))
}
