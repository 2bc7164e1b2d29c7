package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_Defaults(t *testing.T) {
	c, err := NewCatalog(DefaultStations(), DefaultStationID)
	require.NoError(t, err)

	assert.Len(t, c.Stations(), 5)
	assert.Equal(t, "South Channel Islands", c.Default().Name)

	s, err := c.Lookup(46086)
	require.NoError(t, err)
	assert.Equal(t, "San Diego", s.Name)

	_, err = c.Lookup(12345)
	require.ErrorIs(t, err, ErrUnknownStation)
	assert.Contains(t, err.Error(), "12345")
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		stations  []Station
		defaultID int
		wantErr   string
	}{
		{"empty", nil, 1, "no stations"},
		{"bad id", []Station{{ID: 0, Name: "x"}}, 0, "invalid station id"},
		{"no name", []Station{{ID: 1}}, 1, "has no name"},
		{"duplicate", []Station{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}, 1, "duplicate station 1"},
		{"default missing", []Station{{ID: 1, Name: "a"}}, 2, "default station 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.stations, tt.defaultID)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalog_StationsIsACopy(t *testing.T) {
	c, err := NewCatalog(DefaultStations(), DefaultStationID)
	require.NoError(t, err)

	list := c.Stations()
	list[0].Name = "changed"
	assert.Equal(t, "San Francisco", c.Stations()[0].Name)
}
