package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
	"github.com/couchcryptid/buoy-swell-service/internal/observability"
)

// Source fetches the raw NDBC tables for a station.
type Source interface {
	FetchDensity(ctx context.Context, stationID int) ([]byte, error)
	FetchDirection(ctx context.Context, stationID int) ([]byte, error)
}

// RawTables holds the two table bodies one report is built from.
type RawTables struct {
	Density   []byte
	Direction []byte
}

// Transformer turns raw tables into a swell report.
type Transformer interface {
	Transform(ctx context.Context, station domain.Station, tables RawTables, res domain.Resolution) (domain.SwellReport, error)
}

// Publisher hands finished reports to downstream consumers.
type Publisher interface {
	PublishReport(ctx context.Context, report domain.SwellReport) error
}

// FetchError wraps a failure to download a station's tables. The HTTP layer
// reports it as a bad gateway.
type FetchError struct {
	StationID int
	Kind      string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s table for station %d: %v", e.Kind, e.StationID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Service builds swell reports on demand: lookup, fetch, transform, publish.
type Service struct {
	catalog     *domain.Catalog
	source      Source
	transformer Transformer
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Service. A nil publisher disables report publishing.
func New(catalog *domain.Catalog, source Source, t Transformer, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	metrics.PublishEnabled.Set(0)
	if publisher != nil {
		metrics.PublishEnabled.Set(1)
	}
	return &Service{
		catalog:     catalog,
		source:      source,
		transformer: t,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
	}
}

// Catalog returns the stations the service can report on.
func (s *Service) Catalog() *domain.Catalog {
	return s.catalog
}

// CheckReadiness returns nil once at least one report has been built,
// or an error describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no swell report has been generated yet")
	}
	return nil
}

// Report fetches the latest tables for a station and summarizes them.
// Tables are fetched one after the other, density first.
func (s *Service) Report(ctx context.Context, stationID int, res domain.Resolution) (domain.SwellReport, error) {
	station, err := s.catalog.Lookup(stationID)
	if err != nil {
		s.metrics.ReportErrors.WithLabelValues("lookup").Inc()
		return domain.SwellReport{}, err
	}

	start := time.Now()

	density, err := s.source.FetchDensity(ctx, station.ID)
	if err != nil {
		s.metrics.ReportErrors.WithLabelValues("fetch").Inc()
		return domain.SwellReport{}, &FetchError{StationID: station.ID, Kind: "density", Err: err}
	}
	direction, err := s.source.FetchDirection(ctx, station.ID)
	if err != nil {
		s.metrics.ReportErrors.WithLabelValues("fetch").Inc()
		return domain.SwellReport{}, &FetchError{StationID: station.ID, Kind: "direction", Err: err}
	}

	report, err := s.transformer.Transform(ctx, station, RawTables{Density: density, Direction: direction}, res)
	if err != nil {
		s.metrics.ReportErrors.WithLabelValues("transform").Inc()
		return domain.SwellReport{}, fmt.Errorf("station %d: %w", station.ID, err)
	}

	s.metrics.ReportsGenerated.WithLabelValues(string(report.Resolution)).Inc()
	s.metrics.TransformDuration.Observe(time.Since(start).Seconds())
	s.metrics.PeaksPerReport.Observe(float64(len(report.Peaks)))
	s.metrics.LastObservation.WithLabelValues(fmt.Sprint(station.ID)).Set(float64(report.ObservedAt.Unix()))
	s.ready.Store(true)

	s.logger.Info("swell report generated",
		"station_id", station.ID,
		"resolution", report.Resolution,
		"observed_at", report.ObservedAt,
		"buckets", len(report.Buckets),
		"peaks", len(report.Peaks),
		"duration", time.Since(start),
	)

	s.publish(ctx, report)
	return report, nil
}

// Warm builds the default station's report so the first page load is served
// from a fresh cache. Failure is logged; the service still starts.
func (s *Service) Warm(ctx context.Context) {
	station := s.catalog.Default()
	if _, err := s.Report(ctx, station.ID, domain.ResolutionSpectral); err != nil {
		s.logger.Warn("initial swell report failed", "station_id", station.ID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, report domain.SwellReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReport(ctx, report); err != nil {
		s.metrics.PublishFailures.Inc()
		s.logger.Warn("publish swell report failed", "station_id", report.Station.ID, "report_id", report.ID, "error", err)
	}
}
