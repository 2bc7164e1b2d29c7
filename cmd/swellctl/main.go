// Command swellctl is the operator CLI for the buoy swell service: list the
// station catalog, take one-off swell snapshots, record NDBC fixtures, check
// recorded fixtures, and follow the published report stream.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
