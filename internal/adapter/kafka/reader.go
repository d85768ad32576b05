// Package kafka provides an alternative ingestion source that replays raw
// feed lines from a Kafka topic into the queue, for offline and test runs
// without a live stream connection.
package kafka

import (
	"context"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/JRhoadhouse/TwitterExercise/internal/backoff"
	"github.com/JRhoadhouse/TwitterExercise/internal/config"
	"github.com/JRhoadhouse/TwitterExercise/internal/observability"
	"github.com/JRhoadhouse/TwitterExercise/internal/queue"
)

const (
	initialFetchDelay = 200 * time.Millisecond
	maxFetchDelay     = 5 * time.Second
)

// MessageFetcher is the subset of the Kafka consumer the source relies on.
type MessageFetcher interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Source consumes raw feed lines from a Kafka topic.
type Source struct {
	fetcher MessageFetcher
	closer  func() error
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSource creates a Kafka consumer for the configured source topic and group.
func NewSource(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Source {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaSourceTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10 MB
	})
	return &Source{fetcher: r, closer: r.Close, logger: logger, metrics: metrics}
}

// Run fetches messages and enqueues their values until the context is
// cancelled. Offsets are committed only after the message is enqueued, so
// delivery into the queue is at-least-once.
func (s *Source) Run(ctx context.Context, q queue.RawQueue) error {
	s.logger.Info("kafka ingestion started")

	delay := initialFetchDelay
	for {
		msg, err := s.fetcher.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("kafka ingestion stopped")
				return nil
			}
			s.logger.Error("kafka fetch failed", "error", err)
			if !backoff.Sleep(ctx, delay) {
				s.logger.Info("kafka ingestion stopped")
				return nil
			}
			delay = backoff.Next(delay, maxFetchDelay)
			continue
		}
		delay = initialFetchDelay

		q.Enqueue(string(msg.Value))
		s.metrics.MessagesEnqueued.Inc()

		if err := s.fetcher.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			s.logger.Warn("commit offset failed", "error", err, "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

// Close releases the underlying consumer.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
