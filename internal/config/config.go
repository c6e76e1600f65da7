package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Transport names accepted in MCP_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all server settings, populated from environment variables.
type Config struct {
	Transport       string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream APIs.
	GeocodingBaseURL string
	WeatherBaseURL   string
	UserAgent        string
	HTTPTimeout      time.Duration
	MaxRetries       int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration

	// Lookup event stream.
	KafkaBrokers        []string
	KafkaLookupTopic    string
	LookupEventsEnabled bool
	BatchSize           int
	BatchFlushInterval  time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	httpTimeout, err := parsePositiveDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	retryBase, err := parsePositiveDuration("HTTP_RETRY_BASE_DELAY", "1s")
	if err != nil {
		return nil, err
	}
	retryMax, err := parsePositiveDuration("HTTP_RETRY_MAX_DELAY", "10s")
	if err != nil {
		return nil, err
	}
	if retryMax < retryBase {
		return nil, errors.New("invalid HTTP_RETRY_MAX_DELAY: must not be less than HTTP_RETRY_BASE_DELAY")
	}

	maxRetries, err := parseMaxRetries()
	if err != nil {
		return nil, err
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	lookupEnabled := len(brokers) > 0
	if v := os.Getenv("LOOKUP_EVENTS_ENABLED"); v != "" {
		lookupEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid LOOKUP_EVENTS_ENABLED: must be true or false")
		}
	}

	cfg := &Config{
		Transport:       sharedcfg.EnvOrDefault("MCP_TRANSPORT", TransportStdio),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeocodingBaseURL: sharedcfg.EnvOrDefault("GEOCODING_BASE_URL", "https://geocoding-api.open-meteo.com/v1"),
		WeatherBaseURL:   sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1"),
		UserAgent:        sharedcfg.EnvOrDefault("USER_AGENT", "weather-mcp-server/1.0"),
		HTTPTimeout:      httpTimeout,
		MaxRetries:       maxRetries,
		RetryBaseDelay:   retryBase,
		RetryMaxDelay:    retryMax,

		KafkaBrokers:        brokers,
		KafkaLookupTopic:    sharedcfg.EnvOrDefault("KAFKA_LOOKUP_TOPIC", "location-lookups"),
		LookupEventsEnabled: lookupEnabled,
		BatchSize:           batchSize,
		BatchFlushInterval:  flushInterval,
	}

	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return nil, fmt.Errorf("invalid MCP_TRANSPORT %q: must be %q or %q", cfg.Transport, TransportStdio, TransportHTTP)
	}
	if err := validateBaseURL("GEOCODING_BASE_URL", cfg.GeocodingBaseURL); err != nil {
		return nil, err
	}
	if err := validateBaseURL("WEATHER_BASE_URL", cfg.WeatherBaseURL); err != nil {
		return nil, err
	}
	if cfg.LookupEventsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("LOOKUP_EVENTS_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.LookupEventsEnabled && cfg.KafkaLookupTopic == "" {
		return nil, errors.New("KAFKA_LOOKUP_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseMaxRetries() (int, error) {
	s := os.Getenv("HTTP_MAX_RETRIES")
	if s == "" {
		return 3, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 10 {
		return 0, errors.New("invalid HTTP_MAX_RETRIES: must be 0-10")
	}
	return n, nil
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute http(s) URL", key, raw)
	}
	return nil
}
