package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultNDBC = "https://www.ndbc.noaa.gov/data/realtime2"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.CORSAllowAll)
	assert.Equal(t, defaultNDBC, cfg.NDBCBaseURL)
	assert.Equal(t, 10*time.Second, cfg.NDBCTimeout)
	assert.Equal(t, 5*time.Minute, cfg.NDBCCacheTTL)
	assert.Equal(t, 32, cfg.NDBCCacheSize)
	assert.Equal(t, 46219, cfg.DefaultStation)
	assert.Empty(t, cfg.StationsFile)
	assert.Equal(t, "America/Los_Angeles", cfg.DisplayTimezone)
	assert.Equal(t, "America/Los_Angeles", cfg.DisplayLocation.String())
	assert.Equal(t, 4, cfg.MaxPeaks)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "buoy-swell-reports", cfg.KafkaTopic)
	assert.False(t, cfg.PublishEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CORS_ALLOW_ALL", "true")
	t.Setenv("NDBC_BASE_URL", "http://localhost:9999/realtime2")
	t.Setenv("NDBC_TIMEOUT", "3s")
	t.Setenv("NDBC_CACHE_TTL", "0s")
	t.Setenv("NDBC_CACHE_SIZE", "8")
	t.Setenv("DEFAULT_STATION", "46086")
	t.Setenv("STATIONS_FILE", "/etc/stations.yaml")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("MAX_PEAKS", "6")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "swell")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.CORSAllowAll)
	assert.Equal(t, "http://localhost:9999/realtime2", cfg.NDBCBaseURL)
	assert.Equal(t, 3*time.Second, cfg.NDBCTimeout)
	assert.Equal(t, time.Duration(0), cfg.NDBCCacheTTL)
	assert.Equal(t, 8, cfg.NDBCCacheSize)
	assert.Equal(t, 46086, cfg.DefaultStation)
	assert.Equal(t, "/etc/stations.yaml", cfg.StationsFile)
	assert.Equal(t, time.UTC.String(), cfg.DisplayLocation.String())
	assert.Equal(t, 6, cfg.MaxPeaks)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "swell", cfg.KafkaTopic)
	assert.True(t, cfg.PublishEnabled())
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"NDBC_TIMEOUT", "bad"},
		{"NDBC_TIMEOUT", "0s"},
		{"NDBC_CACHE_TTL", "-1m"},
		{"NDBC_CACHE_SIZE", "0"},
		{"NDBC_CACHE_SIZE", "many"},
		{"DEFAULT_STATION", "-5"},
		{"MAX_PEAKS", "0"},
		{"DISPLAY_TIMEZONE", "Mars/Olympus_Mons"},
		{"NDBC_BASE_URL", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadCatalog_BuiltIn(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	catalog, err := LoadCatalog(cfg)
	require.NoError(t, err)
	assert.Len(t, catalog.Stations(), 5)
	assert.Equal(t, 46219, catalog.Default().ID)
}

func TestLoadCatalog_BuiltInUnknownDefault(t *testing.T) {
	t.Setenv("DEFAULT_STATION", "41001")
	cfg, err := Load()
	require.NoError(t, err)

	_, err = LoadCatalog(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "41001")
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`default: 51201
stations:
  - id: 51201
    name: Waimea Bay
  - id: 51202
    name: Mokapu Point
`), 0o600))
	t.Setenv("STATIONS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	catalog, err := LoadCatalog(cfg)
	require.NoError(t, err)
	require.Len(t, catalog.Stations(), 2)
	assert.Equal(t, "Waimea Bay", catalog.Default().Name)
	assert.Equal(t, "Mokapu Point", catalog.Stations()[1].Name)
}

func TestLoadCatalog_FileFallsBackToEnvDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`stations:
  - id: 51201
    name: Waimea Bay
`), 0o600))
	t.Setenv("STATIONS_FILE", path)
	t.Setenv("DEFAULT_STATION", "51201")

	cfg, err := Load()
	require.NoError(t, err)

	catalog, err := LoadCatalog(cfg)
	require.NoError(t, err)
	assert.Equal(t, 51201, catalog.Default().ID)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	t.Setenv("STATIONS_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	cfg, err := Load()
	require.NoError(t, err)

	_, err = LoadCatalog(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading stations file")
}
