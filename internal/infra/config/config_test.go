package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OPENWEATHER_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9000"
  allowedOrigins: ["http://file.example"]
weather:
  apiKey: from-file
  upstreamTimeout: 3s
history:
  limit: 10
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("PORT", "7000")
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("CLIENT_ORIGIN", "http://a.example, http://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.HTTP.Address)
	require.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, "from-file", cfg.Weather.APIKey)
	require.Equal(t, 3*time.Second, cfg.Weather.UpstreamTimeout)
	require.Equal(t, 10, cfg.History.Limit)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, int64(10<<10), cfg.HTTP.MaxBodyBytes)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\nOPENWEATHER_API_KEY=owm\n"), 0o600))
	t.Setenv("CONFIG_PATH", "")
	// registered so t.Setenv restores them after godotenv writes
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OPENWEATHER_API_KEY", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	require.NoError(t, os.Unsetenv("OPENWEATHER_API_KEY"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.Auth.Secret)
	require.Equal(t, "owm", cfg.Weather.APIKey)
}

func TestValidateHistoryQueue(t *testing.T) {
	cfg := defaultConfig()
	cfg.Auth.Secret = "x"
	cfg.Weather.APIKey = "y"
	require.NoError(t, cfg.Validate())

	cfg.History.Queue = QueueValkey
	require.Error(t, cfg.Validate())
	cfg.Valkey.Addr = "localhost:6379"
	require.NoError(t, cfg.Validate())

	cfg.History.Queue = "kafka"
	require.Error(t, cfg.Validate())
}

func TestValidateAllowedOrigins(t *testing.T) {
	cfg := defaultConfig()
	cfg.Auth.Secret = "x"
	cfg.Weather.APIKey = "y"

	cfg.HTTP.AllowedOrigins = []string{"*"}
	require.NoError(t, cfg.Validate())

	cfg.HTTP.AllowedOrigins = []string{"localhost:5001"}
	require.Error(t, cfg.Validate())
}
