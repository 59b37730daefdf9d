package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/shelter-data-etl/internal/config"
	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes normalized shelters to a Kafka topic.
// It implements pipeline.Saver.
type Writer struct {
	writer    *kafkago.Writer
	batchSize int
	logger    *slog.Logger
}

// NewWriter creates a Kafka producer for the configured shelter topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
	}
	batchSize := cfg.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	return &Writer{writer: w, batchSize: batchSize, logger: logger}
}

// Save serializes shelters and publishes them in chunks of the configured
// batch size. Records are keyed by dedup key (normalized address and name),
// which is stable across runs, so a re-run lands each shelter on the same
// partition and a compacted topic keeps only its latest version.
func (w *Writer) Save(ctx context.Context, shelters []domain.Shelter) error {
	if len(shelters) == 0 {
		return nil
	}
	publishedAt := time.Now().UTC()
	for start := 0; start < len(shelters); start += w.batchSize {
		end := min(start+w.batchSize, len(shelters))
		msgs := make([]kafkago.Message, 0, end-start)
		for i := start; i < end; i++ {
			msg, err := serializeToMessage(shelters[i], publishedAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish shelters %d-%d: %w", start, end, err)
		}
		w.logger.Debug("published shelter batch", "topic", w.writer.Topic, "size", len(msgs))
	}
	w.logger.Info("published shelters", "topic", w.writer.Topic, "count", len(shelters))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Shelter into a Kafka message.
func serializeToMessage(s domain.Shelter, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize shelter: %w", err)
	}
	key, ok := domain.DedupKey(s)
	if !ok {
		return kafkago.Message{}, fmt.Errorf("shelter %s has no dedup key", s.ID)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "shelter_id", Value: []byte(s.ID)},
			{Key: "shelter_type", Value: []byte(s.Type)},
			{Key: "region", Value: []byte(s.Source.Region)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
