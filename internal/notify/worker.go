package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"auditflow/internal/events"
)

// Worker consumes submission events and dispatches email notifications.
// Delivery failures are logged and skipped: the event stream must keep
// moving, and a lost email is recoverable from the admin review queue.
type Worker struct {
	client *kgo.Client
	sender Sender
	logger *slog.Logger
}

// NewWorker creates a Worker consuming the submission topic as part of the
// given consumer group. An empty group falls back to "auditflow-notify".
func NewWorker(brokers []string, group string, sender Sender, logger *slog.Logger) (*Worker, error) {
	if group == "" {
		group = "auditflow-notify"
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(events.TopicAuditSubmitted),
	)
	if err != nil {
		return nil, fmt.Errorf("create notification consumer: %w", err)
	}
	return &Worker{client: client, sender: sender, logger: logger}, nil
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		fetches := w.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			w.logger.ErrorContext(ctx, "fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			w.handle(ctx, record)
		})
	}
}

// Close shuts down the consumer, committing outstanding offsets.
func (w *Worker) Close() {
	w.client.Close()
}

func (w *Worker) handle(ctx context.Context, record *kgo.Record) {
	var event events.ProgramSubmitted
	if err := json.Unmarshal(record.Value, &event); err != nil {
		w.logger.ErrorContext(ctx, "malformed submission event",
			"topic", record.Topic,
			"offset", record.Offset,
			"error", err,
		)
		return
	}
	if err := w.sender.Send(ctx, ComposeMessage(event)); err != nil {
		w.logger.ErrorContext(ctx, "failed to send notification",
			"program_id", event.ProgramID,
			"tenant_id", event.TenantID,
			"error", err,
		)
		return
	}
	w.logger.InfoContext(ctx, "submission notification sent",
		"program_id", event.ProgramID,
		"tenant_id", event.TenantID,
	)
}

// ComposeMessage renders the approver notification for a submission event.
func ComposeMessage(event events.ProgramSubmitted) Message {
	return Message{
		TenantID:    event.TenantID.String(),
		Subject:     fmt.Sprintf("Audit program %q submitted for approval", event.ProgramName),
		Body:        fmt.Sprintf("The audit program %q (%s) was submitted for approval on %s and is waiting for review.", event.ProgramName, event.ProgramID, event.SubmittedAt.Format("January 2, 2006")),
		ProgramID:   event.ProgramID.String(),
		ProgramName: event.ProgramName,
	}
}
