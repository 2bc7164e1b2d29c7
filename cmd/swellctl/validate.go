package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check recorded NDBC fixtures parse and summarize cleanly",
	Long: `validate finds every <station>.data_spec with a matching .swdir in dir,
runs both through the parser and the swell summary, and checks the
results. Exits non-zero when any check fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// phase tracks pass/fail for one fixture.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runValidate(cmd *cobra.Command, args []string) error {
	phases, err := validateDir(args[0])
	if err != nil {
		return err
	}
	if !printPhases(cmd.OutOrStdout(), phases) {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// validateDir checks every fixture pair in dir.
func validateDir(dir string) ([]*phase, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.data_spec"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .data_spec fixtures in %s", dir)
	}
	sort.Strings(matches)

	phases := make([]*phase, 0, len(matches))
	for _, densityPath := range matches {
		phases = append(phases, validateFixture(densityPath))
	}
	return phases, nil
}

func validateFixture(densityPath string) *phase {
	base := strings.TrimSuffix(filepath.Base(densityPath), ".data_spec")
	p := &phase{name: base}

	stationID, err := strconv.Atoi(base)
	if err != nil {
		p.errorf("file name %q is not a station id", base)
		return p
	}

	density, err := readTable(densityPath, domain.ParseDensity)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	direction, err := readTable(strings.TrimSuffix(densityPath, ".data_spec")+".swdir", domain.ParseDirection)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if !density.ObservedAt.Equal(direction.ObservedAt) {
		p.errorf("density observed %s, direction observed %s", density.ObservedAt, direction.ObservedAt)
	}

	obs, err := domain.MergeObservation(stationID, density, direction)
	if err != nil {
		p.errorf("merge: %v", err)
		return p
	}
	checkObservation(p, obs)

	station := domain.Station{ID: stationID, Name: base}
	for _, res := range []domain.Resolution{domain.ResolutionSpectral, domain.ResolutionDiscrete} {
		checkReport(p, domain.Summarize(station, obs, res, domain.DefaultMaxPeaks))
	}
	return p
}

func readTable[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}

func checkObservation(p *phase, obs domain.Observation) {
	if len(obs.Bins) == 0 {
		p.errorf("observation has no bins")
	}
	for i, b := range obs.Bins {
		if b.Energy < 0 {
			p.errorf("bin %d: negative energy %v", i, b.Energy)
		}
		if !math.IsNaN(b.Direction) && (b.Direction < 0 || b.Direction >= 360) {
			p.errorf("bin %d: direction %v out of range", i, b.Direction)
		}
		if i > 0 && b.Frequency <= obs.Bins[i-1].Frequency {
			p.errorf("bin %d: frequency %v not increasing", i, b.Frequency)
		}
	}
}

func checkReport(p *phase, r domain.SwellReport) {
	for i := 1; i < len(r.Buckets); i++ {
		if r.Buckets[i].Seconds >= r.Buckets[i-1].Seconds {
			p.errorf("%s: bucket %d (%ds) not shorter than previous", r.Resolution, i, r.Buckets[i].Seconds)
		}
	}
	if len(r.Peaks) > domain.DefaultMaxPeaks {
		p.errorf("%s: %d peaks exceeds limit", r.Resolution, len(r.Peaks))
	}
	for _, pk := range r.Peaks {
		if pk.Energy <= 0 {
			p.errorf("%s: peak at index %d has no energy", r.Resolution, pk.Index)
		}
		if (pk.Direction == nil) != (pk.Cardinal == "") {
			p.errorf("%s: peak at index %d direction/cardinal disagree", r.Resolution, pk.Index)
		}
	}
}

// printPhases writes a PASS/FAIL summary and reports whether all passed.
func printPhases(w io.Writer, phases []*phase) bool {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-20s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}
	return allPassed
}
