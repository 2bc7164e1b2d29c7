package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/buoy-swell-service/internal/chart"
	"github.com/couchcryptid/buoy-swell-service/internal/config"
	"github.com/couchcryptid/buoy-swell-service/internal/domain"
	"github.com/couchcryptid/buoy-swell-service/internal/pipeline"
)

var (
	snapshotStation    int
	snapshotResolution string
	snapshotPNG        string
	snapshotJSON       bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the latest observation for a buoy and print its swell breakdown",
	Example: `  swellctl snapshot
  swellctl snapshot --station 46086 --resolution discrete --png swell.png`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().IntVarP(&snapshotStation, "station", "s", 0, "station id (default: catalog default)")
	snapshotCmd.Flags().StringVarP(&snapshotResolution, "resolution", "r", string(domain.ResolutionSpectral), "peak resolution: spectral or discrete")
	snapshotCmd.Flags().StringVar(&snapshotPNG, "png", "", "also write a spectrum bar chart to this file")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print the report as JSON instead of tables")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	start := time.Now()

	res, err := domain.ParseResolution(snapshotResolution)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := config.LoadCatalog(cfg)
	if err != nil {
		return err
	}
	station := catalog.Default()
	if snapshotStation != 0 {
		if station, err = catalog.Lookup(snapshotStation); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.NDBCTimeout)
	defer cancel()

	client := newClient(cfg)
	fetchStart := time.Now()
	density, err := client.FetchDensity(ctx, station.ID)
	if err != nil {
		return err
	}
	direction, err := client.FetchDirection(ctx, station.ID)
	if err != nil {
		return err
	}
	fetchTime := time.Since(fetchStart)

	report, err := pipeline.NewTransformer(cfg.MaxPeaks, cliLogger()).Transform(ctx, station,
		pipeline.RawTables{Density: density, Direction: direction}, res)
	if err != nil {
		return err
	}

	if snapshotPNG != "" {
		if err := writePNG(snapshotPNG, report); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if snapshotJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(chart.NewView(report, cfg.DisplayLocation))
	}

	printSnapshot(out, report, cfg.DisplayLocation)
	fmt.Fprintf(out, "\nFetch time: %.2f seconds\n", fetchTime.Seconds())
	fmt.Fprintf(out, "Total runtime: %.2f seconds\n", time.Since(start).Seconds())
	return nil
}

func printSnapshot(w io.Writer, report domain.SwellReport, loc *time.Location) {
	clock, day := domain.FormatObservedAt(report.ObservedAt, loc)
	fmt.Fprintf(w, "Current Swell Info for Buoy %d (%s)\n", report.Station.ID, report.Station.Name)
	fmt.Fprintf(w, "Last update from buoy: %s on %s\n", clock, day)
	if report.SeparationPeriod > 0 {
		fmt.Fprintf(w, "Swell/wind-wave separation: %.1f s\n", report.SeparationPeriod)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderBuckets(report))
	fmt.Fprintln(w)
	if len(report.Peaks) == 0 {
		fmt.Fprintln(w, "No swell peaks detected.")
		return
	}
	fmt.Fprintf(w, "Swell trains (%s):\n", report.Resolution)
	fmt.Fprintln(w, renderPeaks(report))
}

func writePNG(path string, report domain.SwellReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := chart.RenderSpectrumPNG(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
