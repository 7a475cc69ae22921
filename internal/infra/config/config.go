package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Weather  WeatherConfig  `yaml:"weather"`
	History  HistoryConfig  `yaml:"history"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	MaxBodyBytes   int64           `yaml:"maxBodyBytes"`
	StaticDir      string          `yaml:"staticDir"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the per-client request limiting middleware.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
	Burst    int           `yaml:"burst"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
}

// WeatherConfig configures the OpenWeatherMap client and lookup flow.
type WeatherConfig struct {
	APIKey            string        `yaml:"apiKey"`
	BaseURL           string        `yaml:"baseUrl"`
	Units             string        `yaml:"units"`
	GeoLimit          int           `yaml:"geoLimit"`
	UpstreamTimeout   time.Duration `yaml:"upstreamTimeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
}

// HistoryConfig controls search history recording.
type HistoryConfig struct {
	Limit      int           `yaml:"limit"`
	Queue      string        `yaml:"queue"`
	QueueKey   string        `yaml:"queueKey"`
	JobTimeout time.Duration `yaml:"jobTimeout"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
	Migrate  bool   `yaml:"migrate"`
}

// ValkeyConfig points at the Valkey server used by the history queue.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
}

// History queue kinds.
const (
	QueueImmediate = "immediate"
	QueueValkey    = "valkey"
)

// Load reads .env, then the YAML file, then environment overrides.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("CLIENT_ORIGIN"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.HTTP.StaticDir = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_REQUESTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Requests = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_WINDOW"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.RateLimit.Window = parsed
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_UPSTREAM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.UpstreamTimeout = parsed
		}
	}
	if v := os.Getenv("HISTORY_QUEUE"); v != "" {
		cfg.History.Queue = strings.ToLower(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("DB_MIGRATE"); v != "" {
		cfg.Postgres.Migrate = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":5000",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   20 * time.Second,
			AllowedOrigins: []string{"http://localhost:5001"},
			MaxBodyBytes:   10 << 10,
			RateLimit: RateLimitConfig{
				Enabled:  true,
				Requests: 100,
				Window:   15 * time.Minute,
				Burst:    100,
			},
		},
		Auth: AuthConfig{
			TokenTTL:        7 * 24 * time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
		},
		Weather: WeatherConfig{
			Units:           "metric",
			GeoLimit:        5,
			UpstreamTimeout: 8 * time.Second,
		},
		History: HistoryConfig{
			Limit:      20,
			Queue:      QueueImmediate,
			QueueKey:   "weather:history:jobs",
			JobTimeout: 5 * time.Second,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			Migrate:  true,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	for _, origin := range c.HTTP.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("http.allowedOrigins: %q must be * or start with http:// or https://", origin)
		}
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("http.maxBodyBytes must be positive")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		return errors.New("OPENWEATHER_API_KEY is required")
	}
	if c.Weather.UpstreamTimeout <= 0 {
		return errors.New("weather.upstreamTimeout must be positive")
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	switch c.History.Queue {
	case QueueImmediate:
	case QueueValkey:
		if strings.TrimSpace(c.Valkey.Addr) == "" {
			return errors.New("valkey.addr cannot be empty when history.queue is valkey")
		}
	default:
		return fmt.Errorf("history.queue must be %q or %q", QueueImmediate, QueueValkey)
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.Requests <= 0 || c.HTTP.RateLimit.Window <= 0 {
			return errors.New("http.rateLimit requests and window must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}

// LogValue hides secrets when the config is logged.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("address", c.HTTP.Address),
		slog.Any("allowedOrigins", c.HTTP.AllowedOrigins),
		slog.Bool("rateLimit", c.HTTP.RateLimit.Enabled),
		slog.String("historyQueue", c.History.Queue),
		slog.Bool("postgres", c.Postgres.DSN != ""),
	)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
