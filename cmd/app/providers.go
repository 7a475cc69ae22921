package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-helloworld/internal/domain/auth"
	"github.com/yanqian/weather-helloworld/internal/domain/places"
	"github.com/yanqian/weather-helloworld/internal/domain/weather"
	"github.com/yanqian/weather-helloworld/internal/infra/config"
	"github.com/yanqian/weather-helloworld/internal/infra/historyqueue"
	"github.com/yanqian/weather-helloworld/internal/infra/openweather"
	"github.com/yanqian/weather-helloworld/internal/infra/placesrepo"
	"github.com/yanqian/weather-helloworld/internal/infra/postgres"
	"github.com/yanqian/weather-helloworld/internal/infra/userrepo"
	"github.com/yanqian/weather-helloworld/pkg/metrics"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func providePlacesConfig(cfg *config.Config) places.Config {
	return places.Config{HistoryLimit: cfg.History.Limit}
}

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{UpstreamTimeout: cfg.Weather.UpstreamTimeout}
}

func provideOpenWeatherClient(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *openweather.Client {
	return openweather.NewClient(openweather.Config{
		APIKey:            cfg.Weather.APIKey,
		BaseURL:           cfg.Weather.BaseURL,
		Units:             cfg.Weather.Units,
		GeoLimit:          cfg.Weather.GeoLimit,
		RequestsPerSecond: cfg.Weather.RequestsPerSecond,
		Burst:             cfg.Weather.Burst,
		Timeout:           cfg.Weather.UpstreamTimeout,
	}, m, logger)
}

// providePostgresPool returns a nil pool when no DSN is configured so the
// repositories fall back to memory.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func(), error) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}, nil
	}
	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(dsn, logger); err != nil {
			return nil, nil, err
		}
	}
	pool, err := postgres.NewPool(context.Background(), postgres.PoolConfig{
		DSN:      dsn,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close, nil
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func providePlacesRepository(pool *pgxpool.Pool) places.Repository {
	if pool == nil {
		return placesrepo.NewMemoryRepository()
	}
	return placesrepo.NewPostgresRepository(pool)
}

func provideHistoryQueue(cfg *config.Config, logger *slog.Logger) (historyqueue.Queue, func(), error) {
	if cfg.History.Queue != config.QueueValkey {
		queue := historyqueue.NewImmediateQueue(cfg.History.JobTimeout, logger)
		return queue, queue.Close, nil
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, nil, err
	}
	logger.Info("history valkey queue enabled", "addr", cfg.Valkey.Addr)
	queue := historyqueue.NewValkeyQueue(client, cfg.History.QueueKey, cfg.History.JobTimeout, logger)
	return queue, func() {
		queue.Close()
		client.Close()
	}, nil
}

func provideHistoryRecorder(queue historyqueue.Queue, svc places.Service, m *metrics.Metrics, logger *slog.Logger) weather.HistoryRecorder {
	return historyqueue.NewRecorder(queue, svc, m, logger)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}
