package chart

import (
	"fmt"
	"time"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

// View is everything the dashboard swaps when the buoy selection changes.
type View struct {
	StationID  int                `json:"station_id"`
	Resolution domain.Resolution  `json:"resolution"`
	Title      string             `json:"title"`
	Subtitle   string             `json:"subtitle"`
	Figure     Figure             `json:"figure"`
	Report     domain.SwellReport `json:"report"`
}

// NewView builds the page header and figure for a report, showing the
// observation time in loc.
func NewView(report domain.SwellReport, loc *time.Location) View {
	clock, day := domain.FormatObservedAt(report.ObservedAt, loc)
	return View{
		StationID:  report.Station.ID,
		Resolution: report.Resolution,
		Title:      Title(report.Station),
		Subtitle:   fmt.Sprintf("Last update from buoy: %s on %s", clock, day),
		Figure:     Build(report),
		Report:     report,
	}
}

// Title is the page heading for a station.
func Title(s domain.Station) string {
	return fmt.Sprintf("%s Swells - Buoy %d", s.Name, s.ID)
}
