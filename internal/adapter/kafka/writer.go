package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/buoy-swell-service/internal/config"
	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

// Header keys set on every published report.
const (
	HeaderStationID  = "station_id"
	HeaderObservedAt = "observed_at"
	HeaderResolution = "resolution"
)

// Writer publishes swell reports to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
// Reports are keyed by station so each station's snapshots stay in order.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishReport serializes a report and writes it to the topic.
func (w *Writer) PublishReport(ctx context.Context, report domain.SwellReport) error {
	msg, err := serializeReport(report)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish report %s: %w", report.ID, err)
	}
	w.logger.Debug("swell report published", "report_id", report.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeReport marshals a SwellReport into a Kafka message.
func serializeReport(report domain.SwellReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize swell report: %w", err)
	}
	stationID := strconv.Itoa(report.Station.ID)
	return kafkago.Message{
		Key:   []byte(stationID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderStationID, Value: []byte(stationID)},
			{Key: HeaderObservedAt, Value: []byte(report.ObservedAt.UTC().Format(time.RFC3339))},
			{Key: HeaderResolution, Value: []byte(report.Resolution)},
		},
	}, nil
}
