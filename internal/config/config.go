package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve in minimal containers.

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSAllowAll    bool

	// NDBC realtime feed.
	NDBCBaseURL   string
	NDBCTimeout   time.Duration
	NDBCCacheTTL  time.Duration
	NDBCCacheSize int

	// Dashboard behaviour.
	DefaultStation  int
	StationsFile    string
	DisplayTimezone string
	DisplayLocation *time.Location
	MaxPeaks        int

	// Optional Kafka report publishing; disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	ndbcTimeout, err := parsePositiveDuration("NDBC_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("NDBC_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("NDBC_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}
	defaultStation, err := parsePositiveInt("DEFAULT_STATION", 46219)
	if err != nil {
		return nil, err
	}
	maxPeaks, err := parsePositiveInt("MAX_PEAKS", 4)
	if err != nil {
		return nil, err
	}

	tz := sharedcfg.EnvOrDefault("DISPLAY_TIMEZONE", "America/Los_Angeles")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tz, err)
	}

	baseURL := sharedcfg.EnvOrDefault("NDBC_BASE_URL", "https://www.ndbc.noaa.gov/data/realtime2")
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid NDBC_BASE_URL %q", baseURL)
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSAllowAll:    os.Getenv("CORS_ALLOW_ALL") == "true",

		NDBCBaseURL:   baseURL,
		NDBCTimeout:   ndbcTimeout,
		NDBCCacheTTL:  cacheTTL,
		NDBCCacheSize: cacheSize,

		DefaultStation:  defaultStation,
		StationsFile:    os.Getenv("STATIONS_FILE"),
		DisplayTimezone: tz,
		DisplayLocation: loc,
		MaxPeaks:        maxPeaks,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "buoy-swell-reports"),
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// PublishEnabled reports whether swell reports are sent to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDuration(key, def string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := parseDuration(key, def)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
