package event

import (
	"context"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher writes domain events to the outbox within a transaction
type OutboxPublisher struct {
	serializer *EventSerializer
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		serializer: serializer,
	}
}

// PublishWithTx stores events through tx, so they commit or roll back
// together with the aggregate changes
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// PublishPending stores the aggregate's pending events and clears them
func (p *OutboxPublisher) PublishPending(ctx context.Context, tx *gorm.DB, source shared.EventSource) error {
	if err := p.PublishWithTx(ctx, tx, source.GetDomainEvents()...); err != nil {
		return err
	}
	source.ClearDomainEvents()
	return nil
}
