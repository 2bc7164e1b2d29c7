package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

// ErrUndecodable marks a message whose value is not a swell report.
var ErrUndecodable = errors.New("undecodable swell report")

// Reader consumes published swell reports.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a consumer on topic. An empty groupID reads partition 0
// from the first offset without committing.
func NewReader(brokers []string, topic, groupID string, logger *slog.Logger) *Reader {
	cfg := kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	}
	if groupID == "" {
		cfg.StartOffset = kafkago.FirstOffset
	}
	return &Reader{reader: kafkago.NewReader(cfg), logger: logger}
}

// ReadReport blocks until the next report arrives or ctx is done.
func (r *Reader) ReadReport(ctx context.Context) (domain.SwellReport, error) {
	msg, err := r.reader.ReadMessage(ctx)
	if err != nil {
		return domain.SwellReport{}, fmt.Errorf("read report: %w", err)
	}
	report, err := decodeReport(msg)
	if err != nil {
		r.logger.Warn("skipping undecodable report", "partition", msg.Partition, "offset", msg.Offset, "error", err)
		return domain.SwellReport{}, err
	}
	return report, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func decodeReport(msg kafkago.Message) (domain.SwellReport, error) {
	var report domain.SwellReport
	if err := json.Unmarshal(msg.Value, &report); err != nil {
		return domain.SwellReport{}, fmt.Errorf("%w at offset %d: %v", ErrUndecodable, msg.Offset, err)
	}
	return report, nil
}
