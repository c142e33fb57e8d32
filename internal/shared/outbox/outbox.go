package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"amicale/internal/shared/events"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// Message is the outbox row persisted inside the same store transaction as
// the state change it announces. The worker relay reads pending rows and
// publishes them to the event bus.
type Message struct {
	ID         string
	EventType  string
	Payload    []byte
	Status     string // pending, published, failed
	RetryCount int
}

// Source is implemented by every module store that keeps an outbox.
type Source interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]Message, error)
	MarkOutboxPublished(ctx context.Context, messageID string) error
}

// Publisher is the bus side of the relay.
type Publisher interface {
	Publish(ctx context.Context, topic string, envelope events.Envelope) error
}

// Relay drains pending outbox rows from one or more sources and publishes
// them. It is safe to run repeatedly; rows are only marked published after a
// successful publish.
type Relay struct {
	Sources      []Source
	Publisher    Publisher
	BatchSize    int
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Run drains sources on the poll interval until ctx is cancelled.
func (r Relay) Run(ctx context.Context) error {
	interval := r.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce performs a single pass over every source.
func (r Relay) DrainOnce(ctx context.Context) {
	batch := r.BatchSize
	if batch <= 0 {
		batch = 100
	}
	for _, source := range r.Sources {
		pending, err := source.ListPendingOutbox(ctx, batch)
		if err != nil {
			r.log().Error("outbox pending listing failed",
				"event", "outbox_relay_list_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"error", err.Error(),
			)
			continue
		}
		for _, message := range pending {
			var envelope events.Envelope
			if err := json.Unmarshal(message.Payload, &envelope); err != nil {
				r.log().Error("outbox payload decode failed",
					"event", "outbox_relay_decode_failed",
					"module", "internal/shared/outbox",
					"layer", "worker",
					"message_id", message.ID,
					"error", err.Error(),
				)
				continue
			}
			if err := r.Publisher.Publish(ctx, envelope.EventType, envelope); err != nil {
				r.log().Error("outbox publish failed",
					"event", "outbox_relay_publish_failed",
					"module", "internal/shared/outbox",
					"layer", "worker",
					"message_id", message.ID,
					"event_type", envelope.EventType,
					"error", err.Error(),
				)
				continue
			}
			if err := source.MarkOutboxPublished(ctx, message.ID); err != nil {
				r.log().Error("outbox mark published failed",
					"event", "outbox_relay_mark_failed",
					"module", "internal/shared/outbox",
					"layer", "worker",
					"message_id", message.ID,
					"error", err.Error(),
				)
			}
		}
	}
}

func (r Relay) log() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
