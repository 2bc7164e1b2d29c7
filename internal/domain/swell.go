package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"
)

// DefaultMaxPeaks is the number of swell trains a report keeps.
const DefaultMaxPeaks = 4

// ParseResolution validates a resolution name. Empty selects spectral.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case "", ResolutionSpectral:
		return ResolutionSpectral, nil
	case ResolutionDiscrete:
		return ResolutionDiscrete, nil
	default:
		return "", fmt.Errorf("invalid resolution %q: must be spectral or discrete", s)
	}
}

// BucketByPeriod collapses bins into whole-second period buckets, keeping the
// most energetic bin of each. Bins must be ordered by frequency; buckets come
// out in the same order.
func BucketByPeriod(bins []SpectralBin) []PeriodBucket {
	buckets := make([]PeriodBucket, 0, len(bins))
	for _, b := range bins {
		seconds := int(math.Round(b.Period))
		if n := len(buckets); n > 0 && buckets[n-1].Seconds == seconds {
			// Compared against the stored (rounded) energy; ties keep the first bin.
			if buckets[n-1].Energy < b.Energy {
				buckets[n-1] = newBucket(seconds, b)
			}
			continue
		}
		buckets = append(buckets, newBucket(seconds, b))
	}
	return buckets
}

func newBucket(seconds int, b SpectralBin) PeriodBucket {
	bucket := PeriodBucket{
		Seconds:  seconds,
		Energy:   roundTo(b.Energy, 3),
		Cardinal: DegreesToCardinal(b.Direction),
	}
	if !math.IsNaN(b.Direction) {
		d := int(b.Direction)
		bucket.Direction = &d
	}
	return bucket
}

// FindPeaks returns the indices of local maxima in values. A sample is a peak
// when it is strictly greater than its left neighbour and the first differing
// sample to its right is lower. Flat tops report their middle index (rounded
// down). The first and last samples are never peaks.
func FindPeaks(values []float64) []int {
	var peaks []int
	last := len(values) - 1
	for i := 1; i < last; i++ {
		if values[i-1] >= values[i] {
			continue
		}
		ahead := i + 1
		for ahead < last && values[ahead] == values[i] {
			ahead++
		}
		if values[ahead] < values[i] {
			peaks = append(peaks, (i+ahead-1)/2)
			i = ahead
		}
	}
	return peaks
}

// Summarize buckets an observation and picks up to maxPeaks peaks at the
// given resolution. A non-positive maxPeaks means DefaultMaxPeaks.
func Summarize(station Station, obs Observation, res Resolution, maxPeaks int) SwellReport {
	if maxPeaks <= 0 {
		maxPeaks = DefaultMaxPeaks
	}
	if res == "" {
		res = ResolutionSpectral
	}

	buckets := BucketByPeriod(obs.Bins)

	var peaks []Peak
	switch res {
	case ResolutionDiscrete:
		peaks = discretePeaks(buckets)
	default:
		peaks = spectralPeaks(obs.Bins)
	}
	if len(peaks) > maxPeaks {
		peaks = peaks[:maxPeaks]
	}
	if peaks == nil {
		peaks = []Peak{}
	}

	return SwellReport{
		ID:               reportID(station.ID, obs.ObservedAt, res),
		Station:          station,
		ObservedAt:       obs.ObservedAt,
		SeparationPeriod: obs.SeparationPeriod,
		Resolution:       res,
		Buckets:          buckets,
		Peaks:            peaks,
		GeneratedAt:      clock.Now().UTC(),
	}
}

func spectralPeaks(bins []SpectralBin) []Peak {
	energies := make([]float64, len(bins))
	for i, b := range bins {
		energies[i] = b.Energy
	}

	idx := FindPeaks(energies)
	peaks := make([]Peak, 0, len(idx))
	for _, i := range idx {
		b := bins[i]
		p := Peak{
			Index:    i,
			Period:   b.Period,
			Seconds:  int(math.Round(b.Period)),
			Energy:   b.Energy,
			Cardinal: DegreesToCardinal(b.Direction),
		}
		if !math.IsNaN(b.Direction) {
			d := b.Direction
			p.Direction = &d
		}
		peaks = append(peaks, p)
	}
	return peaks
}

func discretePeaks(buckets []PeriodBucket) []Peak {
	energies := make([]float64, len(buckets))
	for i, b := range buckets {
		energies[i] = b.Energy
	}

	idx := FindPeaks(energies)
	peaks := make([]Peak, 0, len(idx))
	for _, i := range idx {
		b := buckets[i]
		p := Peak{
			Index:    i,
			Period:   float64(b.Seconds),
			Seconds:  b.Seconds,
			Energy:   b.Energy,
			Cardinal: b.Cardinal,
		}
		if b.Direction != nil {
			d := float64(*b.Direction)
			p.Direction = &d
		}
		peaks = append(peaks, p)
	}
	return peaks
}

// reportID is deterministic so the same observation always maps to the same
// report, regardless of when it was generated.
func reportID(stationID int, observedAt time.Time, res Resolution) string {
	input := fmt.Sprintf("%d|%s|%s", stationID, observedAt.UTC().Format(time.RFC3339), res)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%d-%s", stationID, hex.EncodeToString(hash[:8]))
}
