package persistence

import (
	"context"
	"fmt"

	"github.com/bos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// eventCarrier is the subset of shared.AggregateRoot the outbox hook needs.
type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// saveAggregateEvents persists an aggregate's pending domain events to the
// outbox inside the same transaction as the aggregate itself, then clears
// them. A nil saver leaves the events on the aggregate for the caller.
func saveAggregateEvents(ctx context.Context, tx *gorm.DB, saver shared.OutboxEventSaver, agg eventCarrier) error {
	if saver == nil {
		return nil
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if err := saver.SaveEvents(ctx, tx, events...); err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	agg.ClearDomainEvents()
	return nil
}
