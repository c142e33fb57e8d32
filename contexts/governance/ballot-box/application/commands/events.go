package commands

import (
	"context"
	"time"

	"amicale/internal/shared/events"
)

const sourceService = "governance/ballot-box"

func (uc BallotUseCase) appendEvent(
	ctx context.Context,
	eventType string,
	entityType string,
	entityID string,
	occurredAt time.Time,
	payload any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  occurredAt.UTC(),
		CorrelationID:  eventID,
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	})
}
