package analytics

import (
	"context"
	"time"

	"github.com/BearBump/TrackPage/internal/broker/messages"
	"github.com/BearBump/TrackPage/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type EventStore interface {
	InsertLookupEvent(ctx context.Context, ev models.LookupEvent) error
}

// Applier превращает сообщение из Kafka в запись lookup_events.
type Applier struct {
	store EventStore
}

func NewApplier(store EventStore) *Applier {
	return &Applier{store: store}
}

func (a *Applier) ApplyKafkaMessage(ctx context.Context, msg messages.LookupRecorded) error {
	if msg.ShopDomain == "" {
		return errors.New("shop_domain is required")
	}
	if msg.OrderNumber == "" {
		return errors.New("order_number is required")
	}
	// Старые продьюсеры могли не слать event_id/checked_at.
	if msg.EventID == "" {
		msg.EventID = uuid.NewString()
	} else if _, err := uuid.Parse(msg.EventID); err != nil {
		return errors.Wrap(err, "parse event_id")
	}
	if msg.CheckedAt.IsZero() {
		msg.CheckedAt = time.Now().UTC()
	}

	return a.store.InsertLookupEvent(ctx, models.LookupEvent{
		EventID:     msg.EventID,
		ShopDomain:  msg.ShopDomain,
		OrderNumber: msg.OrderNumber,
		Found:       msg.Found,
		CheckedAt:   msg.CheckedAt,
	})
}
