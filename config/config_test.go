package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "catalog.db", cfg.Store.Path)
	assert.Equal(t, 8, cfg.Password.MinLength)
	assert.True(t, cfg.Password.RequireSpecial)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	yml := `
store:
  driver: redis
redis:
  addr: cache:6380
  key_prefix: shop
  dial_timeout: 2s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("CATALOG_LOG__FORMAT", "json")
	t.Setenv("CATALOG_AUTH__BCRYPT_COST", "4")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "shop", cfg.Redis.KeyPrefix)
	assert.Equal(t, 2*time.Second, cfg.Redis.DialTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	// untouched keys keep their defaults
	assert.Equal(t, "catalog.db", cfg.Store.Path)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "unknown store driver")

	cfg = Default()
	cfg.Store.Path = " "
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Store.Driver = DriverMemory
	cfg.Store.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestEnvKey(t *testing.T) {
	k, v := envKey("CATALOG_REDIS__KEY_PREFIX", "x")
	assert.Equal(t, "redis.key_prefix", k)
	assert.Equal(t, "x", v)
}
