package pgshop

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS shops (
  shop_domain TEXT PRIMARY KEY,
  access_token TEXT NOT NULL,
  tracking_enabled BOOLEAN NOT NULL DEFAULT TRUE,
  not_found_message TEXT NOT NULL DEFAULT '',
  brand_color TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS lookup_events (
  id BIGSERIAL PRIMARY KEY,
  event_id UUID NOT NULL,
  shop_domain TEXT NOT NULL,
  order_number TEXT NOT NULL,
  found BOOLEAN NOT NULL,
  checked_at TIMESTAMPTZ NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_lookup_events_shop_checked ON lookup_events(shop_domain, checked_at DESC)`,
		// Kafka доставляет at-least-once: уникальность event_id делает запись идемпотентной.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_lookup_events_event_id ON lookup_events(event_id)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
