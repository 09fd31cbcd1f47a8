package pgshop

import (
	"context"
	"time"

	"github.com/BearBump/TrackPage/internal/models"
	"github.com/pkg/errors"
)

// InsertLookupEvent идемпотентна по event_id: повторная доставка того же
// события из Kafka не создаёт дубль.
func (s *Storage) InsertLookupEvent(ctx context.Context, ev models.LookupEvent) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(ctx, `
INSERT INTO lookup_events (event_id, shop_domain, order_number, found, checked_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (event_id) DO NOTHING
`, ev.EventID, ev.ShopDomain, ev.OrderNumber, ev.Found, ev.CheckedAt, now)
	return errors.Wrap(err, "insert lookup event")
}

type LookupStats struct {
	Total int64 `json:"total"`
	Found int64 `json:"found"`
}

// CountLookupEvents — агрегат для админской статистики магазина.
func (s *Storage) CountLookupEvents(ctx context.Context, domain string, since time.Time) (LookupStats, error) {
	var st LookupStats
	err := s.db.QueryRow(ctx, `
SELECT COUNT(*), COUNT(*) FILTER (WHERE found)
FROM lookup_events
WHERE shop_domain = $1 AND checked_at >= $2
`, domain, since.UTC()).Scan(&st.Total, &st.Found)
	if err != nil {
		return LookupStats{}, errors.Wrap(err, "count lookup events")
	}
	return st, nil
}
