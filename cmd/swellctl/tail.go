package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/buoy-swell-service/internal/adapter/kafka"
	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

var tailGroup string

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow swell reports published to Kafka",
	Long: `tail consumes the report topic (KAFKA_BROKERS / KAFKA_TOPIC) and prints
one line per report until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVar(&tailGroup, "group", "", "consumer group id (empty reads from the start without committing)")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.PublishEnabled() {
		return errors.New("KAFKA_BROKERS is not set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, tailGroup, cliLogger())
	defer reader.Close()

	out := cmd.OutOrStdout()
	for {
		report, err := reader.ReadReport(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, kafka.ErrUndecodable) {
				fmt.Fprintf(os.Stderr, "skip: %v\n", err)
				continue
			}
			return err
		}
		fmt.Fprintln(out, summaryLine(report))
	}
}

// summaryLine is a one-line digest: station, observation time, dominant peaks.
func summaryLine(r domain.SwellReport) string {
	line := fmt.Sprintf("%s %d %-24s", r.ObservedAt.UTC().Format("2006-01-02T15:04Z"), r.Station.ID, r.Station.Name)
	if len(r.Peaks) == 0 {
		return line + " no peaks"
	}
	for _, p := range r.Peaks {
		line += fmt.Sprintf(" | %ds %.2f %s", p.Seconds, p.Energy, p.Cardinal)
	}
	return line
}
