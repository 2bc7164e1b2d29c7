package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	fixtureStations []int
	fixtureOut      string
	fixtureRows     int
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Record NDBC spectral tables as test fixtures",
	Long: `fixture downloads <station>.data_spec and <station>.swdir from the NDBC
feed and writes them to the output directory, keeping the header lines and
the newest --rows observations.`,
	Example: `  swellctl fixture --station 46219 --out internal/domain/testdata --rows 2`,
	Args:    cobra.NoArgs,
	RunE:    runFixture,
}

func init() {
	fixtureCmd.Flags().IntSliceVarP(&fixtureStations, "station", "s", nil, "station ids to record (repeatable)")
	fixtureCmd.Flags().StringVarP(&fixtureOut, "out", "o", ".", "output directory")
	fixtureCmd.Flags().IntVar(&fixtureRows, "rows", 2, "observation rows to keep per table (0 keeps all)")
	_ = fixtureCmd.MarkFlagRequired("station")
	rootCmd.AddCommand(fixtureCmd)
}

func runFixture(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fixtureOut, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	client := newClient(cfg)
	ctx := cmd.Context()
	for _, id := range fixtureStations {
		density, err := client.FetchDensity(ctx, id)
		if err != nil {
			return err
		}
		direction, err := client.FetchDirection(ctx, id)
		if err != nil {
			return err
		}

		tables := []struct {
			ext  string
			body []byte
		}{
			{"data_spec", density},
			{"swdir", direction},
		}
		for _, tbl := range tables {
			path := filepath.Join(fixtureOut, fmt.Sprintf("%d.%s", id, tbl.ext))
			if err := os.WriteFile(path, trimRows(tbl.body, fixtureRows), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
	}
	return nil
}

// trimRows keeps every '#' header line and the first n data rows. NDBC
// tables are newest first, so this keeps the newest observations.
func trimRows(body []byte, n int) []byte {
	if n <= 0 {
		return body
	}
	var out bytes.Buffer
	kept := 0
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		if strings.TrimSpace(line) == "" || kept >= n {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
		kept++
	}
	return out.Bytes()
}
