package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgJSON := `{
		"server": {"host": "127.0.0.1", "port": 9029},
		"mongodb": {"uri": "${TEST_MONGO_URI}", "database": "pool_league_test"},
		"frontend": {"url": "http://localhost:5173"},
		"jwt": {"secret": "${TEST_JWT_SECRET}", "accessTtl": 60},
		"admin": {"passwordHash": "${TEST_ADMIN_HASH}"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.test.json"), []byte(cfgJSON), 0o600))

	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("TEST_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	t.Setenv("TEST_ADMIN_HASH", "$2a$12$fakehash")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 9029, cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 60, cfg.JWT.AccessTTL)
	assert.Equal(t, "$2a$12$fakehash", cfg.Admin.PasswordHash)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	_, err := Load("nope")
	require.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("POOL_ENV", "")
	assert.Equal(t, "dev", GetEnv())

	t.Setenv("POOL_ENV", "prod")
	assert.Equal(t, "prod", GetEnv())
}
