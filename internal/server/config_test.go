package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrEthical07/toxin/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test in an empty directory so no .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, password.ModeArgon2id, cfg.EngineConfig().Password.Mode)
	assert.Equal(t, time.Duration(0), cfg.EngineConfig().Session.TTL)
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "toxin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
log_level: debug
redis:
  addr: "redis:6379"
  db: 2
password_mode: plaintext
session_ttl: 1h
`), 0o600))

	t.Setenv("TOXIN_REDIS_DB", "5")
	t.Setenv("TOXIN_SESSION_TTL", "30m")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.Redis.DB)
	assert.Equal(t, password.ModePlaintext, cfg.PasswordMode)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TOXIN_ADDR=:7070\nTOXIN_LOG_FORMAT=text\n"), 0o600))
	t.Setenv("TOXIN_LOG_FORMAT", "json")
	t.Cleanup(func() { _ = os.Unsetenv("TOXIN_ADDR") })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "json", cfg.LogFormat, "process environment wins over .env")
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad redis db", map[string]string{"TOXIN_REDIS_DB": "two"}},
		{"bad ttl", map[string]string{"TOXIN_SESSION_TTL": "soon"}},
		{"negative ttl", map[string]string{"TOXIN_SESSION_TTL": "-1m"}},
		{"unknown store", map[string]string{"TOXIN_ACCOUNT_STORE": "mongo"}},
		{"postgres without dsn", map[string]string{"TOXIN_ACCOUNT_STORE": "postgres"}},
		{"unknown password mode", map[string]string{"TOXIN_PASSWORD_MODE": "md5"}},
		{"unknown log format", map[string]string{"TOXIN_LOG_FORMAT": "xml"}},
		{"bad metrics flag", map[string]string{"TOXIN_METRICS": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	chdirTemp(t)
	_, err := LoadConfig("does-not-exist.yaml")
	assert.Error(t, err)
}
