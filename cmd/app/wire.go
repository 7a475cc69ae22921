//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-helloworld/internal/bootstrap"
	"github.com/yanqian/weather-helloworld/internal/domain/auth"
	"github.com/yanqian/weather-helloworld/internal/domain/places"
	"github.com/yanqian/weather-helloworld/internal/domain/weather"
	"github.com/yanqian/weather-helloworld/internal/infra/config"
	"github.com/yanqian/weather-helloworld/internal/infra/openweather"
	httpiface "github.com/yanqian/weather-helloworld/internal/interface/http"
	"github.com/yanqian/weather-helloworld/pkg/logger"
	"github.com/yanqian/weather-helloworld/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.New,
		provideAuthConfig,
		providePlacesConfig,
		provideWeatherConfig,
		providePostgresPool,
		provideUserRepository,
		providePlacesRepository,
		provideHistoryQueue,
		provideHistoryRecorder,
		provideOpenWeatherClient,
		auth.NewService,
		places.NewService,
		weather.NewService,
		wire.Bind(new(weather.GeoResolver), new(*openweather.Client)),
		wire.Bind(new(weather.SampleFetcher), new(*openweather.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
