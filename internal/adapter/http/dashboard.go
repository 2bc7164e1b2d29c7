package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/couchcryptid/buoy-swell-service/internal/chart"
	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type stationOption struct {
	ID       int
	Name     string
	Selected bool
}

type dashboardPage struct {
	Title       string
	Subtitle    string
	Stations    []stationOption
	Resolutions []domain.Resolution
	Resolution  domain.Resolution
	Figure      chart.Figure
	Error       string
}

// handleDashboard renders the page for ?buoy= (default station when absent)
// so the first paint needs no round trip. Failures still render the selector.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	catalog := s.service.Catalog()
	station := catalog.Default()
	status := http.StatusOK

	page := dashboardPage{
		Resolutions: []domain.Resolution{domain.ResolutionSpectral, domain.ResolutionDiscrete},
		Resolution:  domain.ResolutionSpectral,
	}

	err := func() error {
		if q := r.URL.Query().Get("buoy"); q != "" {
			id, err := parseStationID(q)
			if err != nil {
				return err
			}
			selected, err := catalog.Lookup(id)
			if err != nil {
				return err
			}
			station = selected
		}
		res, err := parseResolution(r.URL.Query().Get("resolution"))
		if err != nil {
			return err
		}
		page.Resolution = res

		report, err := s.service.Report(r.Context(), station.ID, res)
		if err != nil {
			return err
		}
		view := chart.NewView(report, s.opts.Location)
		page.Title = view.Title
		page.Subtitle = view.Subtitle
		page.Figure = view.Figure
		return nil
	}()
	if err != nil {
		status = statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("dashboard render failed", "station_id", station.ID, "error", err)
		}
		page.Title = chart.Title(station)
		page.Error = err.Error()
		page.Figure = chart.Build(domain.SwellReport{})
	}

	for _, st := range catalog.Stations() {
		page.Stations = append(page.Stations, stationOption{ID: st.ID, Name: st.Name, Selected: st.ID == station.ID})
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, page); err != nil {
		s.logger.Error("dashboard template failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}
