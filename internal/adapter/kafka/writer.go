package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/station-wind-etl/internal/config"
	"github.com/couchcryptid/station-wind-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces hourly wind rows to a Kafka topic.
// It implements pipeline.SummaryLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured summary topic.
// Rows are hashed by station so one station's buckets stay ordered on a partition.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadSummary publishes every hourly row of one station in a single
// WriteMessages call.
func (w *Writer) LoadSummary(ctx context.Context, station string, summary domain.HourlySummary) error {
	if len(summary.Rows) == 0 {
		return nil
	}
	rows := domain.NewHourlyWindMessages(station, summary)
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(rows[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages for %s: %w", len(msgs), station, err)
	}
	w.logger.Debug("summary published", "station", station, "messages", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an hourly row into a Kafka message keyed by
// station and bucket.
func serializeToMessage(row domain.HourlyWindMessage) (kafkago.Message, error) {
	data, err := domain.SerializeHourlyWind(row)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte(row.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte(row.Station)},
			{Key: "processed_at", Value: []byte(row.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
