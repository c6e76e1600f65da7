package main

import (
	"log/slog"

	"github.com/couchcryptid/weather-mcp-server/internal/adapter/httpclient"
	"github.com/couchcryptid/weather-mcp-server/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-mcp-server/internal/config"
	"github.com/couchcryptid/weather-mcp-server/internal/domain"
	"github.com/couchcryptid/weather-mcp-server/internal/observability"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	resolver *domain.Resolver
	weather  domain.WeatherSource
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := httpclient.New(httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
		Retry: httpclient.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryBaseDelay,
			MaxDelay:   cfg.RetryMaxDelay,
		},
	}, metrics, logger)

	geocoder := openmeteo.NewGeocodingClient(client, cfg.GeocodingBaseURL, metrics, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		resolver: domain.NewResolver(geocoder, logger),
		weather:  openmeteo.NewForecastClient(client, cfg.WeatherBaseURL, logger),
	}, nil
}
