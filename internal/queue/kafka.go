package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"houscan/internal/analysis"
	dErrors "houscan/pkg/domain-errors"
)

// Kafka is a kafka-backed queue. Jobs are JSON records keyed by subject id so
// per-subject ordering holds within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// KafkaConfig carries broker wiring for the analysis job topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

func NewKafka(cfg KafkaConfig, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client, topic: cfg.Topic, logger: logger}, nil
}

func (k *Kafka) Enqueue(ctx context.Context, job analysis.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal analysis job: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(job.SubjectID.String()),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "enqueue analysis job")
	}
	return nil
}

func (k *Kafka) Run(ctx context.Context, handle Handler) error {
	for {
		fetches := k.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			k.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err.Error(),
			)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			var job analysis.Job
			if err := json.Unmarshal(record.Value, &job); err != nil {
				k.logger.ErrorContext(ctx, "malformed analysis job record",
					"topic", record.Topic,
					"offset", record.Offset,
					"error", err.Error(),
				)
				return
			}
			if err := handle(ctx, job); err != nil {
				k.logger.ErrorContext(ctx, "analysis job failed",
					"subject_id", job.SubjectID.String(),
					"error", err.Error(),
				)
			}
		})
		if err := k.client.CommitUncommittedOffsets(ctx); err != nil {
			k.logger.ErrorContext(ctx, "kafka offset commit failed",
				"error", err.Error(),
			)
		}
	}
}

// Close flushes pending produces and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
