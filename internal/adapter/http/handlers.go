package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/buoy-swell-service/internal/chart"
	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

// errBadRequest marks client input errors.
var errBadRequest = errors.New("bad request")

type stationsResponse struct {
	Default  int              `json:"default"`
	Stations []domain.Station `json:"stations"`
}

func (s *Server) handleStations(w http.ResponseWriter, _ *http.Request) {
	catalog := s.service.Catalog()
	writeJSON(w, http.StatusOK, stationsResponse{
		Default:  catalog.Default().ID,
		Stations: catalog.Stations(),
	})
}

func (s *Server) handleSwell(w http.ResponseWriter, r *http.Request) {
	report, err := s.reportFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chart.NewView(report, s.opts.Location))
}

func (s *Server) handleSpectrumPNG(w http.ResponseWriter, r *http.Request) {
	report, err := s.reportFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderSpectrumPNG(&buf, report); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) reportFromRequest(r *http.Request) (domain.SwellReport, error) {
	id, err := parseStationID(chi.URLParam(r, "id"))
	if err != nil {
		return domain.SwellReport{}, err
	}
	res, err := parseResolution(r.URL.Query().Get("resolution"))
	if err != nil {
		return domain.SwellReport{}, err
	}
	return s.service.Report(r.Context(), id, res)
}

func parseStationID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid station id %q", errBadRequest, s)
	}
	return id, nil
}

func parseResolution(s string) (domain.Resolution, error) {
	res, err := domain.ParseResolution(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return res, nil
}

// statusFor maps report errors to HTTP status codes. Anything not caused by
// the client is blamed on the NDBC feed.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownStation), errors.Is(err, chart.ErrNoBuckets):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("swell request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes before writing the header so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"response encoding failed"}` + "\n")) //nolint:errcheck // best-effort response
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n')) //nolint:errcheck // best-effort response
}
