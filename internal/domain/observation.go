package domain

import (
	"errors"
	"time"
)

var (
	// ErrNoObservation is returned when an NDBC table has a header but no data rows.
	ErrNoObservation = errors.New("no observation rows in table")

	// ErrUnknownStation is returned when a station id is not in the catalog.
	ErrUnknownStation = errors.New("unknown station")
)

// SpectralBin is one frequency bin of a spectral observation.
type SpectralBin struct {
	Frequency float64 // Hz
	Period    float64 // seconds, 1/Frequency rounded to 2 decimals
	Energy    float64 // m^2/Hz
	Direction float64 // degrees true, NaN when missing
}

// Observation is the latest spectral reading of a station with density and
// direction merged bin by bin.
type Observation struct {
	StationID        int
	ObservedAt       time.Time
	SeparationPeriod float64 // seconds, 0 when missing
	Bins             []SpectralBin
}

// PeriodBucket is the dominant bin of a whole-second period bucket.
type PeriodBucket struct {
	Seconds   int     `json:"seconds"`
	Energy    float64 `json:"energy"`
	Direction *int    `json:"direction"`
	Cardinal  string  `json:"cardinal,omitempty"`
}

// Peak is a local energy maximum of the spectrum.
type Peak struct {
	Index     int      `json:"index"`
	Period    float64  `json:"period"`
	Seconds   int      `json:"seconds"`
	Energy    float64  `json:"energy"`
	Direction *float64 `json:"direction"`
	Cardinal  string   `json:"cardinal,omitempty"`
}

// Resolution selects the series peak detection runs over.
type Resolution string

const (
	// ResolutionSpectral detects peaks over the raw frequency bins.
	ResolutionSpectral Resolution = "spectral"
	// ResolutionDiscrete detects peaks over whole-second period buckets.
	ResolutionDiscrete Resolution = "discrete"
)

// SwellReport is the per-station summary served to the dashboard.
type SwellReport struct {
	ID               string         `json:"id"`
	Station          Station        `json:"station"`
	ObservedAt       time.Time      `json:"observed_at"`
	SeparationPeriod float64        `json:"separation_period"`
	Resolution       Resolution     `json:"resolution"`
	Buckets          []PeriodBucket `json:"buckets"`
	Peaks            []Peak         `json:"peaks"`
	GeneratedAt      time.Time      `json:"generated_at"`
}
