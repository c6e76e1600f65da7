package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang/geo/s2"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-mcp-server/internal/config"
	"github.com/couchcryptid/weather-mcp-server/internal/domain"
)

// cellLevel is the S2 level used to key events with a point. Level 10 cells
// are roughly 10km across, so lookups of one city land on one partition.
const cellLevel = 10

// Writer produces lookup events to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured lookup topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaLookupTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes lookup events in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.LookupEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d lookup events: %w", len(msgs), err)
	}
	w.logger.Debug("lookup events written", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a LookupEvent into a Kafka message.
func serializeToMessage(event domain.LookupEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lookup event: %w", err)
	}
	return kafkago.Message{
		Key:   messageKey(event),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(event.Outcome)},
			{Key: "tool", Value: []byte(event.Tool)},
			{Key: "resolved_at", Value: []byte(event.ResolvedAt.Format(time.RFC3339))},
		},
	}, nil
}

// messageKey keys events with a point by the token of the S2 cell containing
// it. Events without a point are keyed by ID.
func messageKey(event domain.LookupEvent) []byte {
	if !event.HasPoint() {
		return []byte(event.ID)
	}
	cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(event.Latitude, event.Longitude)).Parent(cellLevel)
	return []byte(cell.ToToken())
}
