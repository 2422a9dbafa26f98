// Package kafka produces canonical records to the sink topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/agri-data-etl/internal/config"
	"github.com/couchcryptid/agri-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes every record of a canonical batch to
// the sink topic in a single WriteMessages call. Message keys are the
// records' deterministic IDs, so replays of the same source rows overwrite
// rather than duplicate on compacted topics.
func (w *Writer) LoadBatch(ctx context.Context, batch domain.CanonicalBatch) error {
	if batch.Size() == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, batch.Size())
	for _, rec := range batch.Production {
		msg, err := serializeToMessage(rec.ID(), rec, batch)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	for _, rec := range batch.Rainfall {
		msg, err := serializeToMessage(rec.ID(), rec, batch)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one canonical record into a Kafka message.
func serializeToMessage(id string, record any, batch domain.CanonicalBatch) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s record: %w", batch.Dataset, err)
	}
	return kafkago.Message{
		Key:   []byte(id),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset", Value: []byte(batch.Dataset)},
			{Key: "normalized_at", Value: []byte(batch.Report.NormalizedAt.Format(time.RFC3339))},
		},
	}, nil
}
