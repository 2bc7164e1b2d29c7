package domain

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	missingValue = "MM"

	// sepFreqMissing is the NDBC Sep_Freq sentinel (and anything above it).
	sepFreqMissing = 9.999

	// directionMissing is the NDBC alpha1 sentinel.
	directionMissing = 999.0

	// freqTolerance is how far density and direction bin frequencies may
	// differ before the tables are considered mismatched.
	freqTolerance = 0.001

	timestampFields = 5
)

// DensityRow is the latest row of a .data_spec table.
type DensityRow struct {
	ObservedAt       time.Time
	SeparationPeriod float64
	Frequencies      []float64
	Energies         []float64
}

// DirectionRow is the latest row of a .swdir table.
type DirectionRow struct {
	ObservedAt  time.Time
	Frequencies []float64
	Directions  []float64 // NaN when missing
}

// ParseDensity reads the newest observation from a .data_spec table.
func ParseDensity(r io.Reader) (DensityRow, error) {
	fields, err := firstDataRow(r)
	if err != nil {
		return DensityRow{}, fmt.Errorf("parse density: %w", err)
	}
	if len(fields) < timestampFields+1 {
		return DensityRow{}, fmt.Errorf("parse density: row has %d fields, want at least %d", len(fields), timestampFields+1)
	}

	observedAt, err := parseTimestamp(fields[:timestampFields])
	if err != nil {
		return DensityRow{}, fmt.Errorf("parse density: %w", err)
	}

	sepPeriod, err := parseSeparationPeriod(fields[timestampFields])
	if err != nil {
		return DensityRow{}, fmt.Errorf("parse density: field %d: %w", timestampFields, err)
	}

	freqs, values, err := parsePairs(fields[timestampFields+1:], timestampFields+1, func(s string) (float64, error) {
		if s == missingValue {
			return 0, nil
		}
		return parseFinite(s)
	})
	if err != nil {
		return DensityRow{}, fmt.Errorf("parse density: %w", err)
	}

	return DensityRow{
		ObservedAt:       observedAt,
		SeparationPeriod: sepPeriod,
		Frequencies:      freqs,
		Energies:         values,
	}, nil
}

// ParseDirection reads the newest observation from a .swdir table.
func ParseDirection(r io.Reader) (DirectionRow, error) {
	fields, err := firstDataRow(r)
	if err != nil {
		return DirectionRow{}, fmt.Errorf("parse direction: %w", err)
	}
	if len(fields) < timestampFields {
		return DirectionRow{}, fmt.Errorf("parse direction: row has %d fields, want at least %d", len(fields), timestampFields)
	}

	observedAt, err := parseTimestamp(fields[:timestampFields])
	if err != nil {
		return DirectionRow{}, fmt.Errorf("parse direction: %w", err)
	}

	freqs, values, err := parsePairs(fields[timestampFields:], timestampFields, func(s string) (float64, error) {
		if s == missingValue {
			return math.NaN(), nil
		}
		v, err := parseFinite(s)
		if err != nil {
			return 0, err
		}
		if v >= directionMissing {
			return math.NaN(), nil
		}
		return v, nil
	})
	if err != nil {
		return DirectionRow{}, fmt.Errorf("parse direction: %w", err)
	}

	return DirectionRow{
		ObservedAt:  observedAt,
		Frequencies: freqs,
		Directions:  values,
	}, nil
}

// MergeObservation pairs density and direction bins by position.
func MergeObservation(stationID int, density DensityRow, direction DirectionRow) (Observation, error) {
	if len(density.Energies) != len(direction.Directions) {
		return Observation{}, fmt.Errorf("merge observation: density has %d bins, direction has %d",
			len(density.Energies), len(direction.Directions))
	}

	bins := make([]SpectralBin, len(density.Energies))
	for i := range density.Energies {
		f := density.Frequencies[i]
		if math.Abs(f-direction.Frequencies[i]) > freqTolerance {
			return Observation{}, fmt.Errorf("merge observation: bin %d frequency %.3f != %.3f",
				i, f, direction.Frequencies[i])
		}
		bins[i] = SpectralBin{
			Frequency: f,
			Period:    periodSeconds(f),
			Energy:    density.Energies[i],
			Direction: direction.Directions[i],
		}
	}

	return Observation{
		StationID:        stationID,
		ObservedAt:       density.ObservedAt,
		SeparationPeriod: density.SeparationPeriod,
		Bins:             bins,
	}, nil
}

// firstDataRow returns the whitespace-separated fields of the first
// non-comment, non-blank line.
func firstDataRow(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.Fields(line), nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return nil, ErrNoObservation
}

// parseTimestamp builds a UTC time from YY MM DD hh mm fields. Two-digit
// years are taken as 20YY.
func parseTimestamp(fields []string) (time.Time, error) {
	var parts [timestampFields]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("field %d: invalid timestamp component %q", i, f)
		}
		parts[i] = v
	}
	year := parts[0]
	if year < 100 {
		year += 2000
	}
	month, day, hour, minute := parts[1], parts[2], parts[3], parts[4]
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || hour < 0 || minute < 0 {
		return time.Time{}, fmt.Errorf("invalid timestamp %s", strings.Join(fields, " "))
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}

// parseSeparationPeriod converts Sep_Freq (Hz) to seconds rounded to 3 decimals.
func parseSeparationPeriod(s string) (float64, error) {
	if s == missingValue {
		return 0, nil
	}
	f, err := parseFinite(s)
	if err != nil {
		return 0, fmt.Errorf("invalid separation frequency %q", s)
	}
	if f <= 0 || f >= sepFreqMissing {
		return 0, nil
	}
	return roundTo(1/f, 3), nil
}

// parsePairs reads "value (freq)" pairs. offset is the row index of the first
// field and only used in error messages.
func parsePairs(fields []string, offset int, parseValue func(string) (float64, error)) ([]float64, []float64, error) {
	if len(fields)%2 != 0 {
		return nil, nil, fmt.Errorf("odd number of value/frequency fields (%d)", len(fields))
	}

	n := len(fields) / 2
	freqs := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		vi, fi := 2*i, 2*i+1

		v, err := parseValue(fields[vi])
		if err != nil {
			return nil, nil, fmt.Errorf("field %d: invalid value %q", offset+vi, fields[vi])
		}

		raw := fields[fi]
		if !strings.HasPrefix(raw, "(") || !strings.HasSuffix(raw, ")") {
			return nil, nil, fmt.Errorf("field %d: frequency %q not parenthesised", offset+fi, raw)
		}
		f, err := parseFinite(raw[1 : len(raw)-1])
		if err != nil || f <= 0 {
			return nil, nil, fmt.Errorf("field %d: invalid frequency %q", offset+fi, raw)
		}

		values[i] = v
		freqs[i] = f
	}
	return freqs, values, nil
}

// parseFinite is strconv.ParseFloat without the NaN and Inf spellings,
// which never appear in NDBC tables and cannot be encoded as JSON.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

func periodSeconds(freq float64) float64 {
	return roundTo(1/freq, 2)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
