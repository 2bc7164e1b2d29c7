package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

// stationsFile is the STATIONS_FILE layout:
//
//	default: 46219
//	stations:
//	  - id: 46059
//	    name: San Francisco
type stationsFile struct {
	Default  int              `koanf:"default"`
	Stations []domain.Station `koanf:"stations"`
}

// LoadCatalog builds the station catalog. With no STATIONS_FILE the built-in
// California buoys are used. A file's own default wins over DEFAULT_STATION.
func LoadCatalog(cfg *Config) (*domain.Catalog, error) {
	if cfg.StationsFile == "" {
		return domain.NewCatalog(domain.DefaultStations(), cfg.DefaultStation)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(cfg.StationsFile), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading stations file %s: %w", cfg.StationsFile, err)
	}

	var sf stationsFile
	if err := k.Unmarshal("", &sf); err != nil {
		return nil, fmt.Errorf("unmarshalling stations file %s: %w", cfg.StationsFile, err)
	}

	defaultID := cfg.DefaultStation
	if sf.Default != 0 {
		defaultID = sf.Default
	}

	catalog, err := domain.NewCatalog(sf.Stations, defaultID)
	if err != nil {
		return nil, fmt.Errorf("stations file %s: %w", cfg.StationsFile, err)
	}
	return catalog, nil
}
