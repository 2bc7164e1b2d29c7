package domain

import (
	"errors"
	"fmt"
)

// Station is an NDBC buoy offered in the selector.
type Station struct {
	ID   int    `json:"id" koanf:"id"`
	Name string `json:"name" koanf:"name"`
}

// DefaultStationID is South Channel Islands.
const DefaultStationID = 46219

// DefaultStations are the California buoys the dashboard ships with.
func DefaultStations() []Station {
	return []Station{
		{ID: 46059, Name: "San Francisco"},
		{ID: 46259, Name: "San Luis Obispo"},
		{ID: 46219, Name: "South Channel Islands"},
		{ID: 46086, Name: "San Diego"},
		{ID: 46047, Name: "Cortes Bank"},
	}
}

// Catalog is the ordered set of selectable stations.
type Catalog struct {
	stations  []Station
	byID      map[int]Station
	defaultID int
}

// NewCatalog validates stations and the default selection.
func NewCatalog(stations []Station, defaultID int) (*Catalog, error) {
	if len(stations) == 0 {
		return nil, errors.New("catalog has no stations")
	}

	byID := make(map[int]Station, len(stations))
	for _, s := range stations {
		if s.ID <= 0 {
			return nil, fmt.Errorf("invalid station id %d", s.ID)
		}
		if s.Name == "" {
			return nil, fmt.Errorf("station %d has no name", s.ID)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate station %d", s.ID)
		}
		byID[s.ID] = s
	}
	if _, ok := byID[defaultID]; !ok {
		return nil, fmt.Errorf("default station %d is not in the catalog", defaultID)
	}

	return &Catalog{
		stations:  append([]Station(nil), stations...),
		byID:      byID,
		defaultID: defaultID,
	}, nil
}

// Stations returns the stations in selector order.
func (c *Catalog) Stations() []Station {
	return append([]Station(nil), c.stations...)
}

// Default returns the station shown on first load.
func (c *Catalog) Default() Station {
	return c.byID[c.defaultID]
}

// Lookup finds a station by id.
func (c *Catalog) Lookup(id int) (Station, error) {
	s, ok := c.byID[id]
	if !ok {
		return Station{}, fmt.Errorf("%w: %d", ErrUnknownStation, id)
	}
	return s, nil
}
