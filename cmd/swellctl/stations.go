package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/buoy-swell-service/internal/config"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List the buoy stations in the catalog",
	Args:  cobra.NoArgs,
	RunE:  runStations,
}

func init() {
	rootCmd.AddCommand(stationsCmd)
}

func runStations(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := config.LoadCatalog(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderStations(catalog))
	return nil
}
