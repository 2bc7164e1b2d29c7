package pipeline

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

// SwellTransformer implements Transformer with the domain parse and
// summarize functions.
type SwellTransformer struct {
	maxPeaks int
	logger   *slog.Logger
}

// NewTransformer creates a SwellTransformer keeping at most maxPeaks peaks
// per report.
func NewTransformer(maxPeaks int, logger *slog.Logger) *SwellTransformer {
	return &SwellTransformer{maxPeaks: maxPeaks, logger: logger}
}

func (t *SwellTransformer) Transform(_ context.Context, station domain.Station, tables RawTables, res domain.Resolution) (domain.SwellReport, error) {
	density, err := domain.ParseDensity(bytes.NewReader(tables.Density))
	if err != nil {
		return domain.SwellReport{}, err
	}
	direction, err := domain.ParseDirection(bytes.NewReader(tables.Direction))
	if err != nil {
		return domain.SwellReport{}, err
	}

	// NDBC rewrites the two files separately, so a fetch can straddle an
	// update. The report keeps the density time.
	if !density.ObservedAt.Equal(direction.ObservedAt) {
		t.logger.Warn("density and direction observation times differ",
			"station_id", station.ID,
			"density_observed_at", density.ObservedAt,
			"direction_observed_at", direction.ObservedAt,
		)
	}

	obs, err := domain.MergeObservation(station.ID, density, direction)
	if err != nil {
		return domain.SwellReport{}, err
	}

	return domain.Summarize(station, obs, res, t.maxPeaks), nil
}
