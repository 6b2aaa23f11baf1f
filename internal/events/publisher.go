package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher produces lifecycle events to Kafka. Keyed by program ID so all
// events for one program land on the same partition in order.
type Publisher struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewPublisher connects a Kafka producer and ensures the submission topic
// exists.
func NewPublisher(ctx context.Context, brokers []string, logger *slog.Logger) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(0),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := ensureTopic(ctx, client, TopicAuditSubmitted); err != nil {
		client.Close()
		return nil, err
	}
	return &Publisher{client: client, logger: logger}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, 1, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// ProgramSubmitted publishes the submission event. Errors are returned for
// logging but callers treat publication as fire-and-forget.
func (p *Publisher) ProgramSubmitted(ctx context.Context, event ProgramSubmitted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal submission event: %w", err)
	}
	record := &kgo.Record{
		Topic: TopicAuditSubmitted,
		Key:   []byte(event.ProgramID),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", TopicAuditSubmitted, err)
	}
	p.logger.InfoContext(ctx, "published submission event",
		"topic", TopicAuditSubmitted,
		"program_id", event.ProgramID,
		"tenant_id", event.TenantID,
	)
	return nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() {
	p.client.Close()
}
