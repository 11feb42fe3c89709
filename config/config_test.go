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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FromFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: sqlite
  dsn: test.db
jwt:
  secret: s3cret
ratelimit:
  rps: 2
  burst: 4
`)
	t.Setenv("VIDHUB_CONFIG", path)
	t.Setenv("VIDHUB_SERVER_MODE", "release")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, ":9000", cfg.Server.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2.0, cfg.RateLimit.RPS)
	assert.Equal(t, 4, cfg.RateLimit.Burst)
	// 默认值
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "local", cfg.Media.Driver)
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: test.db
`)
	t.Setenv("VIDHUB_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: "postgres", DSN: "dsn"},
			JWT:      JWTConfig{Secret: "x"},
			Media:    MediaConfig{Driver: "local"},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Media.Driver = "gcs"
	assert.Error(t, cfg.Validate())
	cfg.Media.GCSBucket = "bucket"
	assert.NoError(t, cfg.Validate())
}
